package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wnaveed5/Job-Checker/internal/model"
)

// SourceRateLimiter enforces a minimum delay between requests to the same
// upstream source.
type SourceRateLimiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time // key: source name
	minDelay func(source string) time.Duration
}

// NewSourceRateLimiter creates a rate limiter. minDelay is consulted per
// source so per-source overrides apply.
func NewSourceRateLimiter(minDelay func(source string) time.Duration) *SourceRateLimiter {
	return &SourceRateLimiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
	}
}

// Wait blocks until enough time has passed since the last request to the
// given source. Returns an error if the context is cancelled while waiting.
func (r *SourceRateLimiter) Wait(ctx context.Context, source string) error {
	delay := r.minDelay(source)

	r.mu.Lock()
	last, ok := r.lastCall[source]
	now := time.Now()

	if !ok || now.Sub(last) >= delay {
		r.lastCall[source] = now
		r.mu.Unlock()
		return nil
	}

	remaining := delay - now.Sub(last)
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", source, ctx.Err())
	case <-time.After(remaining):
	}

	r.mu.Lock()
	r.lastCall[source] = time.Now()
	r.mu.Unlock()

	return nil
}

// Ensure LimitedSource implements model.Source.
var _ model.Source = (*LimitedSource)(nil)

// LimitedSource is a decorator that waits for the rate limiter before
// delegating to the wrapped source.
type LimitedSource struct {
	inner   model.Source
	limiter *SourceRateLimiter
}

// NewLimitedSource wraps a source with rate limiting. All sources should
// share the same limiter instance.
func NewLimitedSource(inner model.Source, limiter *SourceRateLimiter) *LimitedSource {
	return &LimitedSource{inner: inner, limiter: limiter}
}

func (l *LimitedSource) Name() string { return l.inner.Name() }

// FetchJobs waits for the rate limiter to allow a request, then delegates to
// the wrapped source.
func (l *LimitedSource) FetchJobs(ctx context.Context) ([]model.Job, error) {
	if err := l.limiter.Wait(ctx, l.inner.Name()); err != nil {
		return nil, err
	}
	return l.inner.FetchJobs(ctx)
}
