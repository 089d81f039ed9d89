package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/internal/service"
)

// Scheduler runs the periodic auto sync for as long as its context lives.
type Scheduler struct {
	job      service.ClientSyncJob
	interval time.Duration
	logger   *logger.Logger
}

func NewScheduler(job service.ClientSyncJob, interval time.Duration, logger *logger.Logger) *Scheduler {
	return &Scheduler{job: job, interval: interval, logger: logger}
}

func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info().Str("func", "Scheduler.Run").Dur("interval", s.interval).Msg("scheduled sync started")
	s.job.Start(ctx, s.interval)

	<-ctx.Done()
	s.job.Stop()

	s.logger.Info().Str("func", "Scheduler.Run").Msg("scheduled sync stopped")
	return nil
}
