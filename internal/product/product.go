// Package product serves the storefront catalog: it owns the candidate
// repositories (memory, Postgres, Redis-cached) and exposes the browse
// pipeline over HTTP.
package product

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"kalasahayak/internal/catalog"
)

var ErrNotFound = errors.New("product not found")

// CategoryFacet is one entry of the category selector.
type CategoryFacet struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func price(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func pricePtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// SampleItems returns the storefront's launch collection in featured order.
func SampleItems() []catalog.Item {
	return []catalog.Item{
		{
			ID: "1", Title: "Hand-Painted Indigo Ceramic Vase", ArtisanName: "Priya Devi",
			Category: catalog.CategoryPottery, Price: price(4500), OriginalPrice: pricePtr(5500),
			ImageURL: "/assets/product-pottery.jpg", Rating: 4.8, ReviewCount: 23, IsNew: true, IsOnSale: true,
		},
		{
			ID: "2", Title: "Traditional Handwoven Persian Rug", ArtisanName: "Ramesh Kumar",
			Category: catalog.CategoryRugs, Price: price(8500),
			ImageURL: "/assets/product-rug.jpg", Rating: 4.9, ReviewCount: 45,
		},
		{
			ID: "3", Title: "Golden Embroidered Silk Textile", ArtisanName: "Anita Sharma",
			Category: catalog.CategoryTextiles, Price: price(3200), OriginalPrice: pricePtr(4000),
			ImageURL: "/assets/product-textile.jpg", Rating: 4.7, ReviewCount: 18, IsNew: true, IsOnSale: true,
		},
		{
			ID: "4", Title: "Handcrafted Brass Decorative Bowl", ArtisanName: "Vikram Singh",
			Category: catalog.CategoryMetalcraft, Price: price(2800),
			ImageURL: "/assets/product-metalcraft.jpg", Rating: 4.6, ReviewCount: 12,
		},
		{
			ID: "5", Title: "Artisan Hand-Knotted Floor Rug", ArtisanName: "Meera Bai",
			Category: catalog.CategoryRugs, Price: price(12000),
			ImageURL: "/assets/product-rug.jpg", Rating: 5.0, ReviewCount: 67,
		},
		{
			ID: "6", Title: "Traditional Ceramic Tea Set", ArtisanName: "Gopal Das",
			Category: catalog.CategoryPottery, Price: price(3500), OriginalPrice: pricePtr(4200),
			ImageURL: "/assets/product-pottery.jpg", Rating: 4.5, ReviewCount: 28, IsOnSale: true,
		},
		{
			ID: "7", Title: "Handwoven Cotton Table Runner", ArtisanName: "Sunita Devi",
			Category: catalog.CategoryTextiles, Price: price(1500),
			ImageURL: "/assets/product-textile.jpg", Rating: 4.4, ReviewCount: 35, IsNew: true,
		},
		{
			ID: "8", Title: "Engraved Copper Wall Art", ArtisanName: "Rajesh Kumar",
			Category: catalog.CategoryMetalcraft, Price: price(5500),
			ImageURL: "/assets/product-metalcraft.jpg", Rating: 4.8, ReviewCount: 22,
		},
	}
}
