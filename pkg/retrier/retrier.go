// Package retrier retries flaky calls with exponential backoff and jitter.
// The dashboard uses it around exchange price lookups.
package retrier

import (
	"context"
	"math/rand"
	"time"
)

const (
	defaultBase       = 1 * time.Second
	defaultCap        = 30 * time.Second
	defaultFactor     = 2.0
	defaultMaxRetries = 5
	defaultJitterFrac = 0.1
)

// Retrier retries a function with exponentially growing pauses between
// attempts. A zero jitter fraction makes the pauses deterministic.
type Retrier struct {
	base       time.Duration
	cap        time.Duration
	factor     float64
	maxRetries int
	jitterFrac float64
}

// Option configures a Retrier.
type Option func(*Retrier)

// WithInitialInterval sets the pause before the first retry.
func WithInitialInterval(d time.Duration) Option {
	return func(r *Retrier) { r.base = d }
}

// WithMaxInterval caps the pause between attempts.
func WithMaxInterval(d time.Duration) Option {
	return func(r *Retrier) { r.cap = d }
}

// WithMultiplier sets the backoff growth factor.
func WithMultiplier(f float64) Option {
	return func(r *Retrier) { r.factor = f }
}

// WithMaxRetries sets how many retries follow the initial attempt.
func WithMaxRetries(n int) Option {
	return func(r *Retrier) { r.maxRetries = n }
}

// WithJitter sets the jitter fraction applied to each pause (0.0 to 1.0).
func WithJitter(frac float64) Option {
	return func(r *Retrier) { r.jitterFrac = frac }
}

// New builds a Retrier with sane defaults, overridden by opts.
func New(opts ...Option) *Retrier {
	r := &Retrier{
		base:       defaultBase,
		cap:        defaultCap,
		factor:     defaultFactor,
		maxRetries: defaultMaxRetries,
		jitterFrac: defaultJitterFrac,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do calls fn until it succeeds, the retry budget runs out, or ctx is
// cancelled. The last error from fn is returned when all attempts fail.
func (r *Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.pause(attempt)):
			}
		}
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
	}
	return lastErr
}

// DoWithData is Do for functions that return a value alongside the error.
func DoWithData[T any](r *Retrier, ctx context.Context, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := r.Do(ctx, func(ctx context.Context) error {
		var ferr error
		out, ferr = fn(ctx)
		return ferr
	})
	return out, err
}

// pause returns the sleep before the given retry attempt (1-based),
// with jitter applied and the configured cap enforced.
func (r *Retrier) pause(attempt int) time.Duration {
	d := float64(r.base)
	for i := 1; i < attempt; i++ {
		d *= r.factor
		if d >= float64(r.cap) {
			d = float64(r.cap)
			break
		}
	}
	if r.jitterFrac > 0 {
		d += (rand.Float64()*2 - 1) * r.jitterFrac * d
	}
	if d < 0 {
		return 0
	}
	return time.Duration(d)
}
