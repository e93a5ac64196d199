// Package searchlog records storefront browse queries as events so that
// downstream consumers can analyse what shoppers look for.
package searchlog

import (
	"context"
	"time"
)

// Event describes one executed catalog query.
type Event struct {
	RequestID    string    `json:"request_id,omitempty"`
	Categories   []string  `json:"categories,omitempty"`
	Search       string    `json:"search,omitempty"`
	Sort         string    `json:"sort"`
	Page         int       `json:"page"`
	PageSize     int       `json:"page_size"`
	TotalMatched int       `json:"total_matched"`
	At           time.Time `json:"at"`
}

// Publisher delivers events. Implementations are best effort; callers log
// and otherwise ignore the returned error.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
