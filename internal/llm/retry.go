package llm

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with capped exponential backoff
// and ±20% jitter. Schema mismatches are retried once; truncation and
// context errors are not retried.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
	log   *slog.Logger

	// sleep waits for d or until ctx is done.
	sleep func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps p with cfg.
func WithRetry(p Provider, cfg RetryConfig, log *slog.Logger) *RetryProvider {
	if log == nil {
		log = slog.Default()
	}
	return &RetryProvider{inner: p, cfg: cfg, log: log, sleep: sleepCtx}
}

func (r *RetryProvider) Name() string    { return r.inner.Name() }
func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(1, r.cfg.MaxAttempts)
	var invalidSeen bool
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(err, &invalidSeen) || attempt == attempts-1 {
			return nil, err
		}

		wait := r.backoff(attempt, err)
		r.log.Debug("llm retry", "attempt", attempt+1, "wait", wait, "error", err)
		if serr := r.sleep(ctx, wait); serr != nil {
			return nil, serr
		}
	}
	return nil, err
}

func retryable(err error, invalidSeen *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var maxTok *ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return false
	}
	var invalid *ErrInvalidResponse
	if errors.As(err, &invalid) {
		if *invalidSeen {
			return false
		}
		*invalidSeen = true
	}
	return true
}

func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	wait := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.cfg.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
