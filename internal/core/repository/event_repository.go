package repository

import (
	"context"

	"github.com/ewout/snapvault/internal/core/domain"
)

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error

	// List returns the most recent events, newest first, up to limit.
	List(ctx context.Context, limit int) ([]*domain.Event, error)
}
