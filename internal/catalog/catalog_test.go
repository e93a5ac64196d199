package catalog

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		in      string
		want    []Category
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "all", want: nil},
		{in: "ALL", want: nil},
		{in: "pottery", want: []Category{CategoryPottery}},
		{in: "pottery, Rugs,pottery", want: []Category{CategoryPottery, CategoryRugs}},
		{in: "pottery,,rugs", want: []Category{CategoryPottery, CategoryRugs}},
		{in: "pottery,glass", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategories(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrContractViolation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortFeatured, k)

	k, err = ParseSortKey(" Price-Low ")
	require.NoError(t, err)
	assert.Equal(t, SortPriceLow, k)

	_, err = ParseSortKey("alphabetical")
	assert.True(t, errors.Is(err, ErrContractViolation))
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Rugs & Carpets", CategoryRugs.Label())
	assert.Equal(t, "glass", Category("glass").Label())
	assert.Len(t, Categories(), 6)
	assert.Len(t, SortKeys(), 6)
}

func TestValidateCandidates(t *testing.T) {
	require.NoError(t, ValidateCandidates(gallery()))

	dup := append(gallery(), gallery()[0])
	assert.True(t, errors.Is(ValidateCandidates(dup), ErrContractViolation))

	bad := gallery()
	bad[2].Price = decimal.Zero
	assert.Error(t, ValidateCandidates(bad))

	bad = gallery()
	bad[3].Rating = 5.5
	assert.Error(t, ValidateCandidates(bad))

	bad = gallery()
	bad[4].ReviewCount = -1
	assert.Error(t, ValidateCandidates(bad))

	bad = gallery()
	bad[5].Category = "glass"
	assert.Error(t, ValidateCandidates(bad))

	bad = gallery()
	bad[6].ID = " "
	assert.Error(t, ValidateCandidates(bad))
}

func TestItemDiscountPercent(t *testing.T) {
	orig := decimal.NewFromInt(5500)
	it := Item{Price: decimal.NewFromInt(4500), OriginalPrice: &orig, IsOnSale: true}
	assert.Equal(t, 18, it.DiscountPercent())

	it.IsOnSale = false
	assert.Zero(t, it.DiscountPercent())

	it = Item{Price: decimal.NewFromInt(4500), IsOnSale: true}
	assert.Zero(t, it.DiscountPercent())
}
