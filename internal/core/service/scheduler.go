package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs automatic backups on a cron schedule.
type Scheduler struct {
	backupService *BackupService
	cron          *cron.Cron
	log           zerolog.Logger
}

func NewScheduler(backupService *BackupService, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		backupService: backupService,
		cron:          cron.New(),
		log:           log.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the backup job for the given cron expression and starts
// the scheduler.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, s.runBackup)
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	s.cron.Start()
	s.log.Info().Str("schedule", spec).Msg("scheduled backups enabled")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runBackup() {
	result, err := s.backupService.Create(context.Background())
	if err != nil {
		if errors.Is(err, ErrSourceMissing) {
			s.log.Warn().Msg("scheduled backup skipped: primary data file missing")
			return
		}
		s.log.Error().Err(err).Msg("scheduled backup failed")
		return
	}

	s.log.Info().
		Str("snapshot", result.Snapshot.Name).
		Int("prune_warnings", len(result.Warnings)).
		Msg("scheduled backup completed")
}
