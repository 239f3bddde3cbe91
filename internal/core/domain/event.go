package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventOperation string

const (
	EventOperationCreate EventOperation = "create"
	EventOperationDelete EventOperation = "delete"
	EventOperationPrune  EventOperation = "prune"
)

type EventStatus string

const (
	EventStatusSuccess EventStatus = "success"
	EventStatusFailed  EventStatus = "failed"
)

// Event is one entry in the backup audit trail.
type Event struct {
	ID           string         `db:"id"`
	Operation    EventOperation `db:"operation"`
	SnapshotName string         `db:"snapshot_name"`
	Status       EventStatus    `db:"status"`
	Detail       string         `db:"detail"`
	CreatedAt    time.Time      `db:"created_at"`
}

func NewEvent(op EventOperation, snapshotName string, status EventStatus, detail string) *Event {
	return &Event{
		ID:           uuid.New().String(),
		Operation:    op,
		SnapshotName: snapshotName,
		Status:       status,
		Detail:       detail,
		CreatedAt:    time.Now(),
	}
}
