package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyJob записывает вызовы Start и Stop.
type spyJob struct {
	mu      sync.Mutex
	started chan time.Duration
	stopped int
}

func (s *spyJob) Start(_ context.Context, interval time.Duration) {
	s.started <- interval
}

func (s *spyJob) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped++
}

func TestScheduler_StartsAndStopsJob(t *testing.T) {
	job := &spyJob{started: make(chan time.Duration, 1)}
	s := NewScheduler(job, 5*time.Minute, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case interval := <-job.started:
		assert.Equal(t, 5*time.Minute, interval)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not started")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not return after cancel")
	}

	job.mu.Lock()
	defer job.mu.Unlock()
	assert.Equal(t, 1, job.stopped)
}
