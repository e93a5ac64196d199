package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/go-faster/errors"
)

// SortKey selects the ordering applied to matched items.
type SortKey string

const (
	SortFeatured   SortKey = "featured"
	SortNewest     SortKey = "newest"
	SortPriceLow   SortKey = "price-low"
	SortPriceHigh  SortKey = "price-high"
	SortRating     SortKey = "rating"
	SortPopularity SortKey = "popularity"
)

var sortLabels = []Option{
	{Value: string(SortFeatured), Label: "Featured"},
	{Value: string(SortNewest), Label: "Newest First"},
	{Value: string(SortPriceLow), Label: "Price: Low to High"},
	{Value: string(SortPriceHigh), Label: "Price: High to Low"},
	{Value: string(SortRating), Label: "Highest Rated"},
	{Value: string(SortPopularity), Label: "Most Popular"},
}

// SortKeys lists the sort options in display order.
func SortKeys() []Option {
	out := make([]Option, len(sortLabels))
	copy(out, sortLabels)
	return out
}

// Valid reports whether k belongs to the sort enumeration.
func (k SortKey) Valid() bool {
	for _, o := range sortLabels {
		if o.Value == string(k) {
			return true
		}
	}
	return false
}

// ParseSortKey converts a request value into a SortKey. An empty value means
// featured.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortFeatured, nil
	}
	k := SortKey(s)
	if !k.Valid() {
		return "", errors.Wrapf(ErrContractViolation, "unknown sort key %q", s)
	}
	return k, nil
}

// Query is the caller-owned selection state for one gallery view.
type Query struct {
	Categories []Category
	Search     string
	Sort       SortKey
	Page       int
	PageSize   int
}

// Validate reports a contract violation for values outside the vocabularies
// or a non-positive page or page size.
func (q Query) Validate() error {
	if q.PageSize <= 0 {
		return errors.Wrapf(ErrContractViolation, "page size must be positive, got %d", q.PageSize)
	}
	if q.Page <= 0 {
		return errors.Wrapf(ErrContractViolation, "page must be positive, got %d", q.Page)
	}
	if !q.Sort.Valid() {
		return errors.Wrapf(ErrContractViolation, "unknown sort key %q", q.Sort)
	}
	for _, c := range q.Categories {
		if !c.Valid() {
			return errors.Wrapf(ErrContractViolation, "unknown category %q", c)
		}
	}
	return nil
}

// Result is one page of matched items plus pagination metadata.
type Result struct {
	Items        []Item `json:"items"`
	TotalMatched int    `json:"total_matched"`
	TotalPages   int    `json:"total_pages"`
	Page         int    `json:"page"`
	PageSize     int    `json:"page_size"`
}

// HasMore reports whether a page after this one holds items.
func (r Result) HasMore() bool {
	return r.Page < r.TotalPages
}

// Window returns the 1-based positions of the first and last item on the
// page within the matched set, or (0, 0) for an empty page.
func (r Result) Window() (from, to int) {
	if len(r.Items) == 0 {
		return 0, 0
	}
	from = (r.Page-1)*r.PageSize + 1
	return from, from + len(r.Items) - 1
}

// Run filters candidates by q, orders the matches by q.Sort and returns the
// requested page. It does not modify candidates and holds no state, so it is
// safe to call concurrently over a shared candidate slice.
//
// Ties under every sort key keep the relative order of candidates. Pages past
// the end yield no items with the totals of the full match set.
func Run(candidates []Item, q Query) (Result, error) {
	if err := q.Validate(); err != nil {
		return Result{}, err
	}

	matched := filter(candidates, q.Categories, q.Search)
	sortItems(matched, q.Sort)
	return paginate(matched, q.Page, q.PageSize), nil
}

// matcher evaluates the category and search predicates.
type matcher struct {
	categories map[Category]struct{}
	needle     string
}

func newMatcher(categories []Category, search string) matcher {
	m := matcher{needle: strings.ToLower(search)}
	if len(categories) > 0 {
		m.categories = make(map[Category]struct{}, len(categories))
		for _, c := range categories {
			m.categories[c] = struct{}{}
		}
	}
	return m
}

func (m matcher) matchCategory(it Item) bool {
	if m.categories == nil {
		return true
	}
	_, ok := m.categories[it.Category]
	return ok
}

func (m matcher) matchSearch(it Item) bool {
	if m.needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(it.Title), m.needle) ||
		strings.Contains(strings.ToLower(it.ArtisanName), m.needle)
}

func filter(candidates []Item, categories []Category, search string) []Item {
	m := newMatcher(categories, search)
	out := make([]Item, 0, len(candidates))
	for _, it := range candidates {
		if m.matchCategory(it) && m.matchSearch(it) {
			out = append(out, it)
		}
	}
	return out
}

func sortItems(items []Item, key SortKey) {
	var compare func(a, b Item) int
	switch key {
	case SortNewest:
		compare = func(a, b Item) int { return compareBoolFirst(a.IsNew, b.IsNew) }
	case SortPriceLow:
		compare = func(a, b Item) int { return a.Price.Cmp(b.Price) }
	case SortPriceHigh:
		compare = func(a, b Item) int { return b.Price.Cmp(a.Price) }
	case SortRating:
		compare = func(a, b Item) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortPopularity:
		compare = func(a, b Item) int { return cmp.Compare(b.ReviewCount, a.ReviewCount) }
	default:
		// featured keeps source order
		return
	}
	slices.SortStableFunc(items, compare)
}

// compareBoolFirst orders true before false.
func compareBoolFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

func paginate(matched []Item, page, pageSize int) Result {
	total := len(matched)
	res := Result{
		Items:        []Item{},
		TotalMatched: total,
		TotalPages:   ceilDiv(total, pageSize),
		Page:         page,
		PageSize:     pageSize,
	}
	// comparing against TotalPages first keeps the offset product from
	// overflowing for absurd page numbers
	if page > res.TotalPages {
		return res
	}
	start := (page - 1) * pageSize
	end := start + min(pageSize, total-start)
	res.Items = matched[start:end:end]
	return res
}

func ceilDiv(n, d int) int {
	q := n / d
	if n%d != 0 {
		q++
	}
	return q
}
