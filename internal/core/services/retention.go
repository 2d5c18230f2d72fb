package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	ports "digital-liver/internal/core/ports/output"
)

const sweepTimeout = 30 * time.Second

// RetentionService periodically drops run-log entries older than the retention window.
type RetentionService struct {
	runs      ports.RunRepository
	retention time.Duration
	cron      *cron.Cron
	now       func() time.Time
}

func NewRetentionService(runs ports.RunRepository, retention time.Duration) *RetentionService {
	return &RetentionService{
		runs:      runs,
		retention: retention,
		cron:      cron.New(),
		now:       time.Now,
	}
}

// Sweep deletes entries created before now minus the retention window.
func (s *RetentionService) Sweep(ctx context.Context) (int64, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	cutoff := s.now().UTC().Add(-s.retention)
	n, err := s.runs.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweep run log: %w", err)
	}
	return n, nil
}

// Start schedules Sweep with a standard cron spec or descriptor such as "@hourly".
func (s *RetentionService) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		n, err := s.Sweep(ctx)
		if err != nil {
			log.WithError(err).Warn("run log retention sweep failed")
			return
		}
		if n > 0 {
			log.WithField("deleted", n).Info("run log retention sweep")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule retention sweep %q: %w", schedule, err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *RetentionService) Stop() {
	<-s.cron.Stop().Done()
}
