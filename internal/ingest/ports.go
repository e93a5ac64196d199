package ingest

import (
	"context"

	"kalasahayak/internal/catalog"
	"kalasahayak/internal/platform/kalaapi"
)

type Repository interface {
	CreateRun(ctx context.Context, run *Run) error
	UpdateRun(ctx context.Context, run *Run) error
	LinkProductToRun(ctx context.Context, runID, productID string) error
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// Source lists published products page by page.
type Source interface {
	PublishedProducts(ctx context.Context, p kalaapi.ProductsParams) ([]kalaapi.ProductDetails, error)
}

// Store receives the mapped catalog items. GetByID reports
// product.ErrNotFound for items it has never seen.
type Store interface {
	GetByID(ctx context.Context, id string) (catalog.Item, error)
	Upsert(ctx context.Context, item catalog.Item) error
}

// SourceRecorder keeps the raw payload an item was built from.
type SourceRecorder interface {
	RecordSource(ctx context.Context, id, provider string, raw []byte) error
}
