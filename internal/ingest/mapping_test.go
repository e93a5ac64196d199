package ingest

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalasahayak/internal/catalog"
	"kalasahayak/internal/platform/kalaapi"
)

func TestToItem(t *testing.T) {
	d := kalaapi.ProductDetails{
		ID:                "42",
		ArtisanID:         "a-7",
		ArtisanName:       "Sunita Devi",
		EnhancedImagePath: "/static/enhanced/42.jpg",
		Description:       "\n  Madhubani painted silk stole  \nNatural dyes, 2m long",
		Price:             decimal.NewFromInt(2400),
	}

	it := ToItem(d, catalog.CategoryTextiles)
	require.NoError(t, it.Validate())
	assert.Equal(t, "42", it.ID)
	assert.Equal(t, "Madhubani painted silk stole", it.Title)
	assert.Equal(t, "Sunita Devi", it.ArtisanName)
	assert.Equal(t, catalog.CategoryTextiles, it.Category)
	assert.Equal(t, "/static/enhanced/42.jpg", it.ImageURL)
	assert.True(t, it.IsNew)
}

func TestToItem_DerivedID(t *testing.T) {
	d := kalaapi.ProductDetails{ArtisanID: "a-7", EnhancedImagePath: "/x.jpg", Description: "Bowl", Price: decimal.NewFromInt(1)}

	a := ToItem(d, catalog.CategoryPottery)
	b := ToItem(d, catalog.CategoryPottery)
	assert.True(t, strings.HasPrefix(a.ID, "kp-"))
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, "a-7", a.ArtisanName)

	d.EnhancedImagePath = "/y.jpg"
	assert.NotEqual(t, a.ID, ToItem(d, catalog.CategoryPottery).ID)
}

func TestTitle(t *testing.T) {
	assert.Empty(t, title(""))
	long := strings.Repeat("घ", 100)
	assert.Equal(t, 80, len([]rune(title(long))))
}
