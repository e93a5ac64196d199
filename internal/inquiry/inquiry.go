// Package inquiry takes artisan onboarding inquiries from the storefront,
// stores them and forwards them to the Kala Sahayak service.
package inquiry

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
)

var ErrNotFound = errors.New("inquiry not found")

type Inquiry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Craft     string    `json:"craft,omitempty"`
	Message   string    `json:"message"`
	Forwarded bool      `json:"forwarded"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"required,e164"`
	Craft   string `json:"craft,omitempty" validate:"omitempty,catalog_category"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

// Normalize trims whitespace and lowercases the email and craft.
func (r CreateRequest) Normalize() CreateRequest {
	return CreateRequest{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:   strings.ReplaceAll(strings.TrimSpace(r.Phone), " ", ""),
		Craft:   strings.ToLower(strings.TrimSpace(r.Craft)),
		Message: strings.TrimSpace(r.Message),
	}
}
