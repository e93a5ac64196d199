package product

import (
	"context"
	"slices"
	"sync"

	"kalasahayak/internal/catalog"
)

// MemoryRepo keeps items in insertion order. Upserting an existing id keeps
// its position.
type MemoryRepo struct {
	mu    sync.RWMutex
	items []catalog.Item
	index map[string]int
}

func NewMemoryRepo(seed []catalog.Item) (*MemoryRepo, error) {
	if err := catalog.ValidateCandidates(seed); err != nil {
		return nil, err
	}
	r := &MemoryRepo{
		items: slices.Clone(seed),
		index: make(map[string]int, len(seed)),
	}
	for i, it := range r.items {
		r.index[it.ID] = i
	}
	return r, nil
}

func (r *MemoryRepo) Candidates(ctx context.Context) ([]catalog.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items), nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (catalog.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return catalog.Item{}, ErrNotFound
	}
	return r.items[i], nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, item catalog.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.index[item.ID]; ok {
		r.items[i] = item
		return nil
	}
	r.index[item.ID] = len(r.items)
	r.items = append(r.items, item)
	return nil
}
