package product

import (
	"context"

	"kalasahayak/internal/catalog"
)

//go:generate mockgen -source=ports.go -destination=mock_repository_test.go -package=product

// Repository is the catalog source. Candidates returns every published item
// in featured order.
type Repository interface {
	Candidates(ctx context.Context) ([]catalog.Item, error)
	GetByID(ctx context.Context, id string) (catalog.Item, error)
	Upsert(ctx context.Context, item catalog.Item) error
}
