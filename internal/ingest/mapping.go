package ingest

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"kalasahayak/internal/catalog"
	"kalasahayak/internal/idgen"
	"kalasahayak/internal/platform/kalaapi"
)

const maxTitleRunes = 80

var productNamespace = uuid.MustParse("6f1d2c1e-4b7a-5c55-9a43-0d0f3b8a2e17")

// ToItem maps a published product into a catalog item of category c.
// Products without an id get one derived from the artisan and image so a
// repeated pull updates the same item.
func ToItem(d kalaapi.ProductDetails, c catalog.Category) catalog.Item {
	id := strings.TrimSpace(d.ID)
	if id == "" {
		seed := d.ArtisanID + "|" + d.EnhancedImagePath
		id = idgen.ProductPrefix + uuid.NewSHA1(productNamespace, []byte(seed)).String()
	}
	artisan := strings.TrimSpace(d.ArtisanName)
	if artisan == "" {
		artisan = strings.TrimSpace(d.ArtisanID)
	}
	return catalog.Item{
		ID:          id,
		Title:       title(d.Description),
		ArtisanName: artisan,
		Category:    c,
		Price:       d.Price,
		ImageURL:    d.EnhancedImagePath,
		IsNew:       true,
	}
}

// keepCurated carries over the fields the remote does not supply from the
// stored item prev, so a re-import only refreshes title, price and image.
func keepCurated(it, prev catalog.Item, d kalaapi.ProductDetails) catalog.Item {
	it.Rating = prev.Rating
	it.ReviewCount = prev.ReviewCount
	it.IsOnSale = prev.IsOnSale
	it.OriginalPrice = prev.OriginalPrice
	it.IsNew = prev.IsNew
	if strings.TrimSpace(d.ArtisanName) == "" && prev.ArtisanName != "" {
		it.ArtisanName = prev.ArtisanName
	}
	return it
}

// title is the first non-empty line of the description, cut to
// maxTitleRunes.
func title(desc string) string {
	var line string
	for l := range strings.Lines(desc) {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	if utf8.RuneCountInString(line) <= maxTitleRunes {
		return line
	}
	r := []rune(line)
	return strings.TrimSpace(string(r[:maxTitleRunes]))
}
