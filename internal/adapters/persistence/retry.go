package persistence

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/meadowmc/economyd/internal/domain/shared"
)

// Retry policy for transient storage failures: three attempts with
// exponential backoff from 50ms, doubling each attempt, with 25% jitter.
const (
	retryAttempts    = 3
	retryBaseBackoff = 50 * time.Millisecond
)

// isTransient classifies a storage error as retryable. Domain violations and
// missing rows never heal on retry; cancellation means the caller gave up.
func isTransient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrDuplicatedKey):
		return false
	case errors.Is(err, gorm.ErrInvalidData), errors.Is(err, gorm.ErrInvalidValue):
		return false
	}
	return true
}

// withRetry runs op up to retryAttempts times, backing off between transient
// failures. The final error is returned unwrapped so callers can classify it.
func withRetry(ctx context.Context, clock shared.Clock, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			clock.Sleep(backoff(attempt))
		}
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = fn(); err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		log.Warn().Err(err).Str("op", op).Int("attempt", attempt+1).Msg("transient storage failure")
	}
	return err
}

// backoff returns the delay before the given retry attempt (1-based), with
// jitter in [0.75, 1.25] of the exponential step.
func backoff(attempt int) time.Duration {
	step := retryBaseBackoff << (attempt - 1)
	jitter := 0.75 + rand.Float64()*0.5
	return time.Duration(float64(step) * jitter)
}
