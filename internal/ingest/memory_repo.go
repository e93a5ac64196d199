package ingest

import (
	"context"
	"slices"
	"sync"

	"github.com/go-faster/errors"
)

var ErrRunNotFound = errors.New("ingest run not found")

// MemoryRepo keeps runs for processes started without a database.
type MemoryRepo struct {
	mu    sync.Mutex
	runs  []Run
	links map[string][]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{links: make(map[string][]string)}
}

func (r *MemoryRepo) CreateRun(ctx context.Context, run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, cloneRun(*run))
	return nil
}

func (r *MemoryRepo) UpdateRun(ctx context.Context, run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.runs {
		if r.runs[i].ID == run.ID {
			r.runs[i] = cloneRun(*run)
			return nil
		}
	}
	return ErrRunNotFound
}

func (r *MemoryRepo) LinkProductToRun(ctx context.Context, runID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.links[runID], productID) {
		r.links[runID] = append(r.links[runID], productID)
	}
	return nil
}

// ProductsOf returns the product ids linked to runID.
func (r *MemoryRepo) ProductsOf(runID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.links[runID])
}

func (r *MemoryRepo) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Run, 0, min(limit, len(r.runs)))
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, cloneRun(r.runs[i]))
	}
	return out, nil
}

func cloneRun(run Run) Run {
	run.Categories = slices.Clone(run.Categories)
	if run.FinishedAt != nil {
		t := *run.FinishedAt
		run.FinishedAt = &t
	}
	return run
}
