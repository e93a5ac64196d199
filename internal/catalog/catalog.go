// Package catalog holds the storefront's catalog item model and the query
// pipeline (filter, sort, paginate) that backs the product gallery.
package catalog

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrContractViolation is returned when a caller passes a query or item that
// breaks a precondition of this package. It is a caller error, never a
// runtime condition to retry.
var ErrContractViolation = errors.New("catalog: contract violation")

// Category is one of the fixed craft categories.
type Category string

const (
	CategoryRugs       Category = "rugs"
	CategoryPottery    Category = "pottery"
	CategoryTextiles   Category = "textiles"
	CategoryJewelry    Category = "jewelry"
	CategoryWoodwork   Category = "woodwork"
	CategoryMetalcraft Category = "metalcraft"
)

// CategoryAll is the selector id the storefront uses for "no category filter".
const CategoryAll = "all"

// Option pairs a vocabulary value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var categoryLabels = []Option{
	{Value: string(CategoryRugs), Label: "Rugs & Carpets"},
	{Value: string(CategoryPottery), Label: "Pottery"},
	{Value: string(CategoryTextiles), Label: "Textiles"},
	{Value: string(CategoryJewelry), Label: "Jewelry"},
	{Value: string(CategoryWoodwork), Label: "Woodwork"},
	{Value: string(CategoryMetalcraft), Label: "Metalcraft"},
}

// Categories lists every known category in display order.
func Categories() []Option {
	out := make([]Option, len(categoryLabels))
	copy(out, categoryLabels)
	return out
}

// Valid reports whether c belongs to the category enumeration.
func (c Category) Valid() bool {
	for _, o := range categoryLabels {
		if o.Value == string(c) {
			return true
		}
	}
	return false
}

// Label returns the display name of c, or the raw id for unknown values.
func (c Category) Label() string {
	for _, o := range categoryLabels {
		if o.Value == string(c) {
			return o.Label
		}
	}
	return string(c)
}

// ParseCategory converts an id into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", errors.Wrapf(ErrContractViolation, "unknown category %q", s)
	}
	return c, nil
}

// ParseCategories parses a comma separated selection. An empty string or the
// "all" selector yields an empty selection, which matches every category.
func ParseCategories(csv string) ([]Category, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" || strings.EqualFold(csv, CategoryAll) {
		return nil, nil
	}
	var out []Category
	seen := make(map[Category]bool)
	for _, part := range strings.Split(csv, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := ParseCategory(part)
		if err != nil {
			return nil, err
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// Item is a catalog entry as supplied by the catalog source. Items are
// treated as immutable values.
type Item struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	ArtisanName   string           `json:"artisan_name"`
	Category      Category         `json:"category"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	ImageURL      string           `json:"image_url,omitempty"`
	Rating        float64          `json:"rating"`
	ReviewCount   int              `json:"review_count"`
	IsNew         bool             `json:"is_new"`
	IsOnSale      bool             `json:"is_on_sale"`
}

// Validate checks the per-item invariants.
func (it Item) Validate() error {
	switch {
	case strings.TrimSpace(it.ID) == "":
		return errors.Wrap(ErrContractViolation, "item id is empty")
	case !it.Category.Valid():
		return errors.Wrapf(ErrContractViolation, "item %s: unknown category %q", it.ID, it.Category)
	case !it.Price.IsPositive():
		return errors.Wrapf(ErrContractViolation, "item %s: price must be positive", it.ID)
	case it.Rating < 0 || it.Rating > 5:
		return errors.Wrapf(ErrContractViolation, "item %s: rating %v out of [0,5]", it.ID, it.Rating)
	case it.ReviewCount < 0:
		return errors.Wrapf(ErrContractViolation, "item %s: negative review count", it.ID)
	}
	return nil
}

// ValidateCandidates checks every item and that ids are unique across the set.
func ValidateCandidates(items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
		if _, dup := seen[it.ID]; dup {
			return errors.Wrapf(ErrContractViolation, "duplicate item id %s", it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}

// DiscountPercent is the rounded saving shown on sale items, or 0 when the
// item is not on sale or has no higher original price.
func (it Item) DiscountPercent() int {
	if !it.IsOnSale || it.OriginalPrice == nil || !it.OriginalPrice.GreaterThan(it.Price) {
		return 0
	}
	pct := it.OriginalPrice.Sub(it.Price).Div(*it.OriginalPrice).Mul(decimal.NewFromInt(100)).Round(0)
	return int(pct.IntPart())
}
