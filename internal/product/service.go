package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"kalasahayak/internal/catalog"
	"kalasahayak/internal/httpx"
	"kalasahayak/internal/searchlog"
)

// Service runs catalog queries against the repository's candidate set.
type Service struct {
	repo   Repository
	events searchlog.Publisher
	log    *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, events searchlog.Publisher, log *zap.Logger) *Service {
	if events == nil {
		events = searchlog.NopPublisher{}
	}
	return &Service{repo: repo, events: events, log: log, now: time.Now}
}

// Browse validates q, loads the candidates and returns the requested page.
func (s *Service) Browse(ctx context.Context, q catalog.Query) (catalog.Result, error) {
	if err := q.Validate(); err != nil {
		return catalog.Result{}, err
	}
	candidates, err := s.repo.Candidates(ctx)
	if err != nil {
		return catalog.Result{}, errors.Wrap(err, "load candidates")
	}
	res, err := catalog.Run(candidates, q)
	if err != nil {
		return catalog.Result{}, err
	}
	s.publish(ctx, q, res)
	return res, nil
}

func (s *Service) publish(ctx context.Context, q catalog.Query, res catalog.Result) {
	cats := make([]string, len(q.Categories))
	for i, c := range q.Categories {
		cats[i] = string(c)
	}
	err := s.events.Publish(ctx, searchlog.Event{
		RequestID:    httpx.RequestIDFromContext(ctx),
		Categories:   cats,
		Search:       q.Search,
		Sort:         string(q.Sort),
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalMatched: res.TotalMatched,
		At:           s.now().UTC(),
	})
	if err != nil {
		s.log.Warn("publish search event", zap.Error(err))
	}
}

func (s *Service) Get(ctx context.Context, id string) (catalog.Item, error) {
	return s.repo.GetByID(ctx, id)
}

// Facets returns the category selector entries with match counts under
// search. The "all" entry comes first.
func (s *Service) Facets(ctx context.Context, search string) ([]CategoryFacet, error) {
	candidates, err := s.repo.Candidates(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load candidates")
	}
	counts := catalog.CountByCategory(candidates, search)

	opts := catalog.Categories()
	out := make([]CategoryFacet, 0, len(opts)+1)
	out = append(out, CategoryFacet{ID: catalog.CategoryAll, Name: "All"})
	for _, o := range opts {
		n := counts[catalog.Category(o.Value)]
		out[0].Count += n
		out = append(out, CategoryFacet{ID: o.Value, Name: o.Label, Count: n})
	}
	return out, nil
}

func (s *Service) Upsert(ctx context.Context, item catalog.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	return s.repo.Upsert(ctx, item)
}
