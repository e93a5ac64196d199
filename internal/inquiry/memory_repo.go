package inquiry

import (
	"context"
	"sync"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	items []Inquiry
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Create(ctx context.Context, inq *Inquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *inq)
	return nil
}

func (r *MemoryRepo) MarkForwarded(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Forwarded = true
			return nil
		}
	}
	return ErrNotFound
}

// ListRecent returns up to limit inquiries, newest first.
func (r *MemoryRepo) ListRecent(ctx context.Context, limit int) ([]Inquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Inquiry, 0, min(limit, len(r.items)))
	for i := len(r.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.items[i])
	}
	return out, nil
}
