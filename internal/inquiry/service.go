package inquiry

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"kalasahayak/internal/idgen"
	"kalasahayak/internal/platform/kalaapi"
)

const forwardTimeout = 5 * time.Second

type Service struct {
	repo      Repository
	forwarder Forwarder
	log       *zap.Logger
	now       func() time.Time
}

// NewService wires the inquiry intake. A nil forwarder stores inquiries
// without forwarding them.
func NewService(repo Repository, forwarder Forwarder, log *zap.Logger) *Service {
	return &Service{repo: repo, forwarder: forwarder, log: log, now: time.Now}
}

// Submit stores a validated request and then tries to forward it. A failed
// forward is logged and leaves Forwarded false.
func (s *Service) Submit(ctx context.Context, req CreateRequest) (Inquiry, error) {
	req = req.Normalize()
	id, err := idgen.New(idgen.InquiryPrefix)
	if err != nil {
		return Inquiry{}, err
	}
	inq := Inquiry{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Craft:     req.Craft,
		Message:   req.Message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, &inq); err != nil {
		return Inquiry{}, errors.Wrap(err, "store inquiry")
	}

	if s.forwarder == nil {
		return inq, nil
	}

	fctx, cancel := context.WithTimeout(ctx, forwardTimeout)
	defer cancel()
	_, err = s.forwarder.SubmitArtisanInquiry(fctx, kalaapi.InquiryPayload{
		Name:    inq.Name,
		Email:   inq.Email,
		Phone:   inq.Phone,
		Message: inq.Message,
	})
	if err != nil {
		s.log.Warn("forward artisan inquiry", zap.String("inquiry_id", inq.ID), zap.Error(err))
		return inq, nil
	}
	if err := s.repo.MarkForwarded(ctx, inq.ID); err != nil {
		s.log.Warn("mark inquiry forwarded", zap.String("inquiry_id", inq.ID), zap.Error(err))
		return inq, nil
	}
	inq.Forwarded = true
	return inq, nil
}

func (s *Service) ListRecent(ctx context.Context, limit int) ([]Inquiry, error) {
	return s.repo.ListRecent(ctx, limit)
}
