package adapter

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/go-resty/resty/v2"
)

const (
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"
	headerRetryAfter    = "Retry-After"
)

// rateLimiter reacts to GitHub's rate-limit headers. Responses that report
// the quota nearly spent pause the caller until the window resets; responses
// that were refused for exhaustion are retried by resty after the same wait.
// Every wait is capped by maxWait.
type rateLimiter struct {
	threshold int
	maxWait   time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	logger *logger.Logger
}

func newRateLimiter(threshold int, maxWait time.Duration, log *logger.Logger) *rateLimiter {
	return &rateLimiter{
		threshold: threshold,
		maxWait:   maxWait,
		now:       time.Now,
		sleep:     sleepContext,
		logger:    log,
	}
}

func isRateLimited(resp *resty.Response) bool {
	if resp == nil {
		return false
	}

	switch resp.StatusCode() {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		return resp.Header().Get(headerRateRemaining) == "0" || resp.Header().Get(headerRetryAfter) != ""
	}
	return false
}

// retryCondition is registered with resty.Client.AddRetryCondition.
func (l *rateLimiter) retryCondition(resp *resty.Response, _ error) bool {
	return isRateLimited(resp)
}

// retryAfter is registered with resty.Client.SetRetryAfter. A zero result
// lets resty fall back to its jittered backoff.
func (l *rateLimiter) retryAfter(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
	wait := l.waitFor(resp)
	if wait > 0 {
		l.logger.Warn().
			Str("func", "rateLimiter.retryAfter").
			Int("status", resp.StatusCode()).
			Dur("wait", wait).
			Msg("rate limited, retrying after wait")
	}
	return wait, nil
}

// afterResponse is registered with resty.Client.OnAfterResponse.
func (l *rateLimiter) afterResponse(_ *resty.Client, resp *resty.Response) error {
	if isRateLimited(resp) {
		return nil
	}

	remaining, err := strconv.Atoi(resp.Header().Get(headerRateRemaining))
	if err != nil || remaining >= l.threshold {
		return nil
	}

	wait := l.waitFor(resp)
	if wait <= 0 {
		return nil
	}

	l.logger.Warn().
		Str("func", "rateLimiter.afterResponse").
		Int("remaining", remaining).
		Dur("wait", wait).
		Msg("rate limit near exhaustion, pausing")

	return l.sleep(resp.Request.Context(), wait)
}

// waitFor derives how long to hold off from Retry-After (seconds) or
// X-RateLimit-Reset (epoch seconds), clamped to [0, maxWait].
func (l *rateLimiter) waitFor(resp *resty.Response) time.Duration {
	var wait time.Duration

	if secs, err := strconv.Atoi(resp.Header().Get(headerRetryAfter)); err == nil {
		wait = time.Duration(secs) * time.Second
	} else if reset, err := strconv.ParseInt(resp.Header().Get(headerRateReset), 10, 64); err == nil {
		wait = time.Unix(reset, 0).Sub(l.now())
	}

	if wait < 0 {
		return 0
	}
	if l.maxWait > 0 && wait > l.maxWait {
		return l.maxWait
	}
	return wait
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
