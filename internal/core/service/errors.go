package service

import "errors"

// Client-caused failures. Handlers map these to 4xx responses; they carry no
// internal detail and are never retried.
var (
	ErrSourceMissing = errors.New("primary data file does not exist")
	ErrInvalidName   = errors.New("invalid snapshot name")
	ErrNotFound      = errors.New("snapshot not found")
)

// Operational failures. Handlers map these to 500 and return an opaque
// message; the underlying cause is logged with full context server-side.
var (
	ErrCopyFailed         = errors.New("snapshot copy failed")
	ErrStorageUnavailable = errors.New("snapshot storage unavailable")
)
