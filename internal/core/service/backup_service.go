package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewout/snapvault/internal/core/domain"
	"github.com/ewout/snapvault/internal/core/repository"
	"github.com/ewout/snapvault/internal/core/retention"
	"github.com/ewout/snapvault/internal/metrics"
)

// PruneWarning records a snapshot that retention pruning could not delete.
// Pruning is best-effort: warnings never fail the surrounding operation.
type PruneWarning struct {
	Name string
	Err  error
}

// CreateResult is the outcome of a successful backup creation.
type CreateResult struct {
	Snapshot domain.Snapshot
	Warnings []PruneWarning
}

// BackupService orchestrates the snapshot lifecycle: create + prune, list,
// read and delete. Create and Prune are serialized by an in-process mutex;
// the service assumes it is the only process managing the directory.
type BackupService struct {
	store     repository.SnapshotStore
	events    repository.EventRepository
	dataFile  string
	retention time.Duration
	log       zerolog.Logger

	mu sync.Mutex
}

func NewBackupService(
	store repository.SnapshotStore,
	events repository.EventRepository,
	dataFile string,
	retentionWindow time.Duration,
	log zerolog.Logger,
) *BackupService {
	return &BackupService{
		store:     store,
		events:    events,
		dataFile:  dataFile,
		retention: retentionWindow,
		log:       log.With().Str("component", "backup").Logger(),
	}
}

// Create takes a new snapshot of the primary data file and then prunes
// expired snapshots. Per-file prune failures are reported as warnings on the
// result; the create itself has already succeeded at that point.
func (s *BackupService) Create(ctx context.Context) (*CreateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.dataFile); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSourceMissing
		}
		s.log.Error().Err(err).Str("path", s.dataFile).Msg("cannot stat primary data file")
		metrics.OperationFailures.WithLabelValues("create").Inc()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if err := s.store.EnsureDir(); err != nil {
		s.log.Error().Err(err).Msg("cannot ensure snapshot directory")
		metrics.OperationFailures.WithLabelValues("create").Inc()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	snap, err := s.store.Create(s.dataFile)
	if err != nil {
		s.log.Error().Err(err).Str("source", s.dataFile).Msg("snapshot copy failed")
		metrics.OperationFailures.WithLabelValues("create").Inc()
		s.recordEvent(ctx, domain.EventOperationCreate, "", domain.EventStatusFailed, "copy failed")
		return nil, fmt.Errorf("%w: %v", ErrCopyFailed, err)
	}
	metrics.BackupsCreated.Inc()

	pruned, warnings := s.pruneLocked(ctx, snap.Name)

	detail := fmt.Sprintf("size=%d pruned=%d", snap.SizeBytes, pruned)
	s.recordEvent(ctx, domain.EventOperationCreate, snap.Name, domain.EventStatusSuccess, detail)

	s.log.Info().
		Str("snapshot", snap.Name).
		Int64("size", snap.SizeBytes).
		Int("pruned", pruned).
		Int("prune_warnings", len(warnings)).
		Msg("backup created")

	return &CreateResult{Snapshot: *snap, Warnings: warnings}, nil
}

// List returns all snapshots newest-first. An empty store yields an empty
// list, never an error.
func (s *BackupService) List(ctx context.Context) ([]domain.Snapshot, error) {
	snaps, err := s.store.List()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list snapshots")
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	s.updateTotals(snaps)
	return snaps, nil
}

// Read returns the raw contents of the named snapshot. The name is validated
// before any filesystem access.
func (s *BackupService) Read(ctx context.Context, name string) ([]byte, error) {
	if !domain.ValidSnapshotName(name) {
		return nil, ErrInvalidName
	}

	data, err := s.store.Read(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		s.log.Error().Err(err).Str("snapshot", name).Msg("failed to read snapshot")
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return data, nil
}

// Delete removes the named snapshot. The name is validated before any
// filesystem access.
func (s *BackupService) Delete(ctx context.Context, name string) error {
	if !domain.ValidSnapshotName(name) {
		return ErrInvalidName
	}

	if err := s.store.Remove(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		s.log.Error().Err(err).Str("snapshot", name).Msg("failed to delete snapshot")
		metrics.OperationFailures.WithLabelValues("delete").Inc()
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	metrics.BackupsDeleted.Inc()
	s.recordEvent(ctx, domain.EventOperationDelete, name, domain.EventStatusSuccess, "")
	s.log.Info().Str("snapshot", name).Msg("backup deleted")
	return nil
}

// Prune deletes all expired snapshots and returns how many were removed.
func (s *BackupService) Prune(ctx context.Context) (int, []PruneWarning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snaps, err := s.store.List()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list snapshots for pruning")
		metrics.OperationFailures.WithLabelValues("prune").Inc()
		return 0, nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	pruned, warnings := s.pruneSnapshots(ctx, snaps, "")
	return pruned, warnings, nil
}

// RetentionWindow returns the configured retention window.
func (s *BackupService) RetentionWindow() time.Duration {
	return s.retention
}

// pruneLocked runs retention against the current listing. Callers must hold
// the mutex. The keep name shields the snapshot just created from pruning.
func (s *BackupService) pruneLocked(ctx context.Context, keep string) (int, []PruneWarning) {
	snaps, err := s.store.List()
	if err != nil {
		s.log.Warn().Err(err).Msg("skipping retention pruning: listing failed")
		return 0, []PruneWarning{{Err: err}}
	}
	return s.pruneSnapshots(ctx, snaps, keep)
}

func (s *BackupService) pruneSnapshots(ctx context.Context, snaps []domain.Snapshot, keep string) (int, []PruneWarning) {
	expired := retention.SelectExpired(snaps, time.Now(), s.retention)

	pruned := 0
	var warnings []PruneWarning
	for _, snap := range expired {
		if snap.Name == keep {
			continue
		}
		if err := s.store.Remove(snap.Name); err != nil {
			// Already gone is not a problem; the goal was removal.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			s.log.Warn().Err(err).Str("snapshot", snap.Name).Msg("retention pruning failed for snapshot")
			warnings = append(warnings, PruneWarning{Name: snap.Name, Err: err})
			continue
		}
		pruned++
		metrics.SnapshotsPruned.Inc()
		s.log.Info().Str("snapshot", snap.Name).Time("created_at", snap.CreatedAt).Msg("pruned expired snapshot")
	}

	if pruned > 0 {
		s.recordEvent(ctx, domain.EventOperationPrune, "", domain.EventStatusSuccess,
			fmt.Sprintf("removed=%d", pruned))
	}

	if current, err := s.store.List(); err == nil {
		s.updateTotals(current)
	}

	return pruned, warnings
}

func (s *BackupService) updateTotals(snaps []domain.Snapshot) {
	var bytes int64
	for _, snap := range snaps {
		bytes += snap.SizeBytes
	}
	metrics.SetSnapshotTotals(len(snaps), bytes)
}

// recordEvent writes to the audit trail best-effort; a failing state store
// must not break backup operations.
func (s *BackupService) recordEvent(ctx context.Context, op domain.EventOperation, name string, status domain.EventStatus, detail string) {
	if s.events == nil {
		return
	}
	event := domain.NewEvent(op, name, status, detail)
	if err := s.events.Create(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("operation", string(op)).Msg("failed to record backup event")
	}
}
