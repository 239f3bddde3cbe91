package dto

// SnapshotResponse represents one stored snapshot in a listing
type SnapshotResponse struct {
	Name      string `json:"name"`
	Size      string `json:"size"` // human-readable, e.g. "1.5 KB"
	Date      string `json:"date"`
	CreatedAt string `json:"createdAt"`
}

// BackupInfo describes a freshly created snapshot
type BackupInfo struct {
	Name string `json:"name"`
	Size string `json:"size"`
	Date string `json:"date"`
}

// PruneWarningResponse reports a snapshot the retention pass failed to remove
type PruneWarningResponse struct {
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

// CreateBackupResponse is returned on successful backup creation
type CreateBackupResponse struct {
	Message  string                 `json:"message"`
	Backup   BackupInfo             `json:"backup"`
	Warnings []PruneWarningResponse `json:"warnings,omitempty"`
}
