package sqlite

import (
	"context"
	"fmt"

	"github.com/ewout/snapvault/internal/core/domain"
	"github.com/ewout/snapvault/internal/core/repository"
)

type eventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO backup_event (id, operation, snapshot_name, status, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Operation,
		event.SnapshotName,
		event.Status,
		event.Detail,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create backup event: %w", err)
	}
	return nil
}

func (r *eventRepository) List(ctx context.Context, limit int) ([]*domain.Event, error) {
	query := `
		SELECT id, operation, snapshot_name, status, detail, created_at
		FROM backup_event
		ORDER BY created_at DESC, id
		LIMIT ?
	`
	var events []*domain.Event
	err := r.db.SelectContext(ctx, &events, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list backup events: %w", err)
	}
	return events, nil
}
