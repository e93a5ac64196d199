// Package ingest pulls published products from the Kala Sahayak service into
// the storefront catalog and records each pull as a run.
package ingest

import (
	"time"

	"github.com/go-faster/errors"
)

type Status string

const (
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Provider is the source name stored next to raw product payloads.
const Provider = "KALA_SAHAYAK"

var ErrAlreadyRunning = errors.New("ingest run already in progress")

type Run struct {
	ID               string     `json:"id"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
	Status           Status     `json:"status"`
	Categories       []string   `json:"categories"`
	BatchSize        int        `json:"batch_size"`
	ProductsFetched  int        `json:"products_fetched"`
	ProductsUpserted int        `json:"products_upserted"`
	ProductsSkipped  int        `json:"products_skipped"`
	Error            string     `json:"error,omitempty"`
}
