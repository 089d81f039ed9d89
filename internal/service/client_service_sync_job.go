package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/MKhiriev/go-cookie-sync/models"
)

// DefaultSyncInterval is used when Start gets a non-positive interval.
const DefaultSyncInterval = 30 * time.Minute

type clientSyncJob struct {
	syncService ClientSyncService
	sink        StageSink

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewClientSyncJob creates a clientSyncJob that calls syncService.SyncNow
// with the auto direction on a ticker. The job is idle until Start is
// called. A tick that lands while another sync runs is dropped by the sync
// service.
func NewClientSyncJob(syncService ClientSyncService, sink StageSink, logger *logger.Logger) ClientSyncJob {
	if sink == nil {
		sink = NopSink
	}
	return &clientSyncJob{syncService: syncService, sink: sink, logger: logger}
}

// Start implements ClientSyncJob. It stops any previously running job, then
// launches a background goroutine that syncs every interval. The goroutine
// exits when ctx is cancelled or Stop is called.
func (j *clientSyncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				report, err := j.syncService.SyncNow(jobCtx, models.SyncAuto, j.sink)
				if err != nil {
					j.logger.Err(err).Str("func", "clientSyncJob.Start").Msg("scheduled sync failed")
					continue
				}
				if report.Dropped {
					j.logger.Debug().Str("func", "clientSyncJob.Start").Msg("scheduled sync absorbed by running sync")
				}
			}
		}
	}()
}

// Stop implements ClientSyncJob. It cancels the background goroutine's
// context and blocks until the goroutine has exited. Safe to call when the
// job is not running.
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
