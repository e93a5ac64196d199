package product

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kalasahayak/internal/catalog"
	"kalasahayak/internal/httpx"
	"kalasahayak/internal/searchlog"
)

type recordingPublisher struct {
	events []searchlog.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e searchlog.Event) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func ids(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestService_Browse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	pub := &recordingPublisher{}
	svc := NewService(repo, pub, zap.NewNop())

	repo.EXPECT().Candidates(gomock.Any()).Return(SampleItems(), nil)

	ctx := httpx.ContextWithRequestID(context.Background(), "req-42")
	res, err := svc.Browse(ctx, catalog.Query{
		Categories: []catalog.Category{catalog.CategoryPottery},
		Sort:       catalog.SortPriceLow,
		Page:       1,
		PageSize:   8,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"6", "1"}, ids(res.Items))

	require.Len(t, pub.events, 1)
	e := pub.events[0]
	assert.Equal(t, "req-42", e.RequestID)
	assert.Equal(t, []string{"pottery"}, e.Categories)
	assert.Equal(t, "price-low", e.Sort)
	assert.Equal(t, 2, e.TotalMatched)
	assert.False(t, e.At.IsZero())
}

func TestService_Browse_InvalidQuerySkipsRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, nil, zap.NewNop())

	_, err := svc.Browse(context.Background(), catalog.Query{Sort: catalog.SortFeatured, Page: 1, PageSize: 0})
	assert.True(t, errors.Is(err, catalog.ErrContractViolation))
}

func TestService_Browse_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, nil, zap.NewNop())

	boom := errors.New("db down")
	repo.EXPECT().Candidates(gomock.Any()).Return(nil, boom)

	_, err := svc.Browse(context.Background(), catalog.Query{Sort: catalog.SortFeatured, Page: 1, PageSize: 8})
	assert.ErrorIs(t, err, boom)
}

func TestService_Browse_PublishFailureIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, &recordingPublisher{err: errors.New("kafka down")}, zap.NewNop())

	repo.EXPECT().Candidates(gomock.Any()).Return(SampleItems(), nil)

	res, err := svc.Browse(context.Background(), catalog.Query{Sort: catalog.SortFeatured, Page: 1, PageSize: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, res.TotalMatched)
}

func TestService_Facets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, nil, zap.NewNop())

	repo.EXPECT().Candidates(gomock.Any()).Return(SampleItems(), nil)

	facets, err := svc.Facets(context.Background(), "hand")
	require.NoError(t, err)
	require.Len(t, facets, 7)
	assert.Equal(t, CategoryFacet{ID: "all", Name: "All", Count: 5}, facets[0])
	assert.Equal(t, CategoryFacet{ID: "rugs", Name: "Rugs & Carpets", Count: 2}, facets[1])
	assert.Equal(t, CategoryFacet{ID: "jewelry", Name: "Jewelry", Count: 0}, facets[4])
}

func TestService_UpsertValidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := NewMockRepository(ctrl)
	svc := NewService(repo, nil, zap.NewNop())

	bad := SampleItems()[0]
	bad.Rating = 7
	assert.Error(t, svc.Upsert(context.Background(), bad))

	good := SampleItems()[0]
	repo.EXPECT().Upsert(gomock.Any(), good).Return(nil)
	assert.NoError(t, svc.Upsert(context.Background(), good))
}
