package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"kalasahayak/internal/catalog"
	"kalasahayak/internal/idgen"
	"kalasahayak/internal/platform/kalaapi"
	"kalasahayak/internal/product"
)

type Config struct {
	Categories []catalog.Category
	BatchSize  int
}

type Service struct {
	source   Source
	store    Store
	recorder SourceRecorder
	runs     Repository
	cfg      Config
	log      *zap.Logger
	now      func() time.Time

	mu sync.Mutex
}

// NewService wires an ingest run. recorder may be nil.
func NewService(source Source, store Store, recorder SourceRecorder, runs Repository, cfg Config, log *zap.Logger) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &Service{
		source:   source,
		store:    store,
		recorder: recorder,
		runs:     runs,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Run pulls every configured category. Only one run executes at a time; a
// concurrent call gets ErrAlreadyRunning.
func (s *Service) Run(ctx context.Context) (_ *Run, err error) {
	if !s.mu.TryLock() {
		return nil, ErrAlreadyRunning
	}
	defer s.mu.Unlock()

	id, err := idgen.New(idgen.RunPrefix)
	if err != nil {
		return nil, err
	}
	cats := make([]string, len(s.cfg.Categories))
	for i, c := range s.cfg.Categories {
		cats[i] = string(c)
	}
	run := &Run{
		ID:         id,
		StartedAt:  s.now().UTC(),
		Status:     StatusRunning,
		Categories: cats,
		BatchSize:  s.cfg.BatchSize,
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("create ingest run: %w", err)
	}
	log := s.log.With(zap.String("run_id", run.ID))
	log.Info("ingest started", zap.Strings("categories", cats), zap.Int("batch_size", run.BatchSize))

	defer func() {
		finished := s.now().UTC()
		run.FinishedAt = &finished
		if err != nil && run.Error == "" {
			run.Error = err.Error()
		}
		if run.Error != "" {
			run.Status = StatusFailed
		} else {
			run.Status = StatusCompleted
		}
		if uerr := s.runs.UpdateRun(context.WithoutCancel(ctx), run); uerr != nil {
			log.Error("update ingest run", zap.Error(uerr))
		}
		log.Info("ingest finished",
			zap.String("status", string(run.Status)),
			zap.Int("fetched", run.ProductsFetched),
			zap.Int("upserted", run.ProductsUpserted),
			zap.Int("skipped", run.ProductsSkipped))
	}()

	seen := make(map[string]bool)
	for _, c := range s.cfg.Categories {
		if err := s.pullCategory(ctx, log, run, c, seen); err != nil {
			run.Error = fmt.Sprintf("category %s: %v", c, err)
			return run, err
		}
	}
	return run, nil
}

func (s *Service) pullCategory(ctx context.Context, log *zap.Logger, run *Run, c catalog.Category, seen map[string]bool) error {
	offset := 0
	for {
		page, err := s.source.PublishedProducts(ctx, kalaapi.ProductsParams{
			Category: string(c),
			Limit:    s.cfg.BatchSize,
			Offset:   offset,
		})
		if err != nil {
			return err
		}
		run.ProductsFetched += len(page)

		fresh := 0
		for _, d := range page {
			it := ToItem(d, c)
			if seen[it.ID] {
				continue
			}
			seen[it.ID] = true
			fresh++
			s.upsert(ctx, log, run, it, d)
		}

		// A short page ends the category. A page of only known ids means the
		// remote ignored the offset.
		if len(page) < s.cfg.BatchSize || fresh == 0 {
			return nil
		}
		offset += len(page)
	}
}

func (s *Service) upsert(ctx context.Context, log *zap.Logger, run *Run, it catalog.Item, d kalaapi.ProductDetails) {
	prev, err := s.store.GetByID(ctx, it.ID)
	switch {
	case err == nil:
		it = keepCurated(it, prev, d)
	case errors.Is(err, product.ErrNotFound):
	default:
		run.ProductsSkipped++
		log.Warn("load existing product", zap.String("product_id", it.ID), zap.Error(err))
		return
	}

	if err := it.Validate(); err != nil {
		run.ProductsSkipped++
		log.Warn("skip product", zap.String("product_id", it.ID), zap.Error(err))
		return
	}
	if err := s.store.Upsert(ctx, it); err != nil {
		run.ProductsSkipped++
		log.Warn("upsert product", zap.String("product_id", it.ID), zap.Error(err))
		return
	}
	run.ProductsUpserted++

	if s.recorder != nil {
		raw := []byte(d.Raw)
		if len(raw) == 0 {
			raw, _ = json.Marshal(d)
		}
		if err := s.recorder.RecordSource(ctx, it.ID, Provider, raw); err != nil {
			log.Warn("record product source", zap.String("product_id", it.ID), zap.Error(err))
		}
	}
	if err := s.runs.LinkProductToRun(ctx, run.ID, it.ID); err != nil {
		log.Warn("link product to run", zap.String("product_id", it.ID), zap.Error(err))
	}
}

func (s *Service) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	return s.runs.ListRuns(ctx, limit)
}
