package main

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kalasahayak/internal/catalog"
	"kalasahayak/internal/product"
)

type recordingRepo struct {
	items []catalog.Item
}

func (r *recordingRepo) Upsert(_ context.Context, it catalog.Item) error {
	r.items = append(r.items, it)
	return nil
}

func TestSyntheticItem_IsValid(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := range 200 {
		it, err := syntheticItem(rng, i)
		require.NoError(t, err)
		require.NoError(t, it.Validate())
		assert.True(t, strings.HasPrefix(it.ID, "kp-"))
		if it.IsOnSale {
			assert.Positive(t, it.DiscountPercent())
		}
	}
}

func TestSeed(t *testing.T) {
	count = 25
	t.Cleanup(func() { count = 0 })

	repo := &recordingRepo{}
	require.NoError(t, seed(context.Background(), repo, zap.NewNop()))
	require.Len(t, repo.items, len(product.SampleItems())+25)
	require.NoError(t, catalog.ValidateCandidates(repo.items))
}
