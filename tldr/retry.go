package tldr

import (
	"context"
	"time"

	"github.com/fwojciec/rfcli"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 500ms, 1s, 2s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{500 * time.Millisecond, 1 * time.Second, 2 * time.Second}
}

// retryable reports whether an attempt that failed with err may be repeated.
func retryable(err error) bool {
	switch rfcli.ErrorCode(err) {
	case rfcli.EFETCH, rfcli.ETIMEOUT:
		return true
	}
	return false
}

// withRetry runs fn up to len(delays)+1 times, waiting delays[i] before
// retry i. Each attempt gets its own timeout when timeout is positive.
// Only fetch failures and attempt timeouts are retried.
func (s *Service) withRetry(ctx context.Context, number int, what string, fn func(ctx context.Context) error) error {
	delays := s.RetryDelays
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := s.attempt(ctx, number, what, fn)
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		s.logger().Debug("retrying",
			"op", what,
			"number", number,
			"attempt", attempt+2,
			"delay", delays[attempt],
			"error", err)

		select {
		case <-ctx.Done():
			return canceled(ctx, number)
		case <-time.After(delays[attempt]):
		}
	}
	return lastErr
}

// attempt runs fn once under the per-attempt timeout.
func (s *Service) attempt(ctx context.Context, number int, what string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return canceled(ctx, number)
	}

	attemptCtx := ctx
	if s.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, s.AttemptTimeout)
		defer cancel()
	}

	err := fn(attemptCtx)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return canceled(ctx, number)
	case attemptCtx.Err() == context.DeadlineExceeded:
		return rfcli.Wrap(rfcli.ETIMEOUT, err, "%s rfc %d timed out after %s", what, number, s.AttemptTimeout)
	}
	return err
}

// canceled converts the context's error into an application error.
func canceled(ctx context.Context, number int) error {
	err := ctx.Err()
	return rfcli.Wrap(rfcli.ErrorCode(err), err, "rfc %d", number)
}
