package dto

import "time"

// EventResponse represents one backup audit trail entry
type EventResponse struct {
	ID           string    `json:"id"`
	Operation    string    `json:"operation"`
	SnapshotName string    `json:"snapshot_name,omitempty"`
	Status       string    `json:"status"`
	Detail       string    `json:"detail,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// EventListResponse represents a list of audit events
type EventListResponse struct {
	Items []EventResponse `json:"items"`
}
