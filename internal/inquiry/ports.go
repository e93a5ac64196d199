package inquiry

import (
	"context"

	"kalasahayak/internal/platform/kalaapi"
)

type Repository interface {
	Create(ctx context.Context, inq *Inquiry) error
	MarkForwarded(ctx context.Context, id string) error
	ListRecent(ctx context.Context, limit int) ([]Inquiry, error)
}

// Forwarder delivers an inquiry to the artisan service.
type Forwarder interface {
	SubmitArtisanInquiry(ctx context.Context, p kalaapi.InquiryPayload) (*kalaapi.Message, error)
}
