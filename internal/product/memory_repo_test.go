package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalasahayak/internal/catalog"
)

func TestMemoryRepo_PreservesFeaturedOrder(t *testing.T) {
	repo, err := NewMemoryRepo(SampleItems())
	require.NoError(t, err)

	got, err := repo.Candidates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8"}, ids(got))
}

func TestMemoryRepo_UpsertKeepsPosition(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemoryRepo(SampleItems())
	require.NoError(t, err)

	updated := SampleItems()[2]
	updated.Price = decimal.NewFromInt(2999)
	require.NoError(t, repo.Upsert(ctx, updated))

	added := catalog.Item{ID: "9", Title: "Carved Sheesham Box", ArtisanName: "Lakshmi Rao",
		Category: catalog.CategoryWoodwork, Price: decimal.NewFromInt(1800), Rating: 4.2, ReviewCount: 3}
	require.NoError(t, repo.Upsert(ctx, added))

	got, err := repo.Candidates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}, ids(got))
	assert.True(t, got[2].Price.Equal(decimal.NewFromInt(2999)))
}

func TestMemoryRepo_GetByID(t *testing.T) {
	repo, err := NewMemoryRepo(SampleItems())
	require.NoError(t, err)

	it, err := repo.GetByID(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, "Meera Bai", it.ArtisanName)

	_, err = repo.GetByID(context.Background(), "404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_RejectsInvalid(t *testing.T) {
	_, err := NewMemoryRepo(append(SampleItems(), SampleItems()[0]))
	assert.ErrorIs(t, err, catalog.ErrContractViolation)

	repo, err := NewMemoryRepo(nil)
	require.NoError(t, err)
	assert.Error(t, repo.Upsert(context.Background(), catalog.Item{ID: "x", Category: catalog.CategoryRugs}))
}

func TestMemoryRepo_CandidatesAreCopies(t *testing.T) {
	repo, err := NewMemoryRepo(SampleItems())
	require.NoError(t, err)

	got, _ := repo.Candidates(context.Background())
	got[0].Title = "changed"

	again, _ := repo.Candidates(context.Background())
	assert.Equal(t, "Hand-Painted Indigo Ceramic Vase", again[0].Title)
}
