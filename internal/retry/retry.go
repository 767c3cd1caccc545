// Package retry provides sequential retries with exponential backoff.
// It knows nothing about any particular network client.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Sleeper waits for the given duration. Tests inject their own to
// observe backoff intervals without waiting.
type Sleeper func(ctx context.Context, d time.Duration) error

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Policy describes how many attempts to make and how long to wait
// between them. The delay doubles after every failed attempt.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
	Sleep     Sleeper
}

// DefaultPolicy mirrors the booth upload behavior: 3 attempts starting
// at one second.
func DefaultPolicy() Policy {
	return Policy{Attempts: 3, BaseDelay: time.Second}
}

// Do runs fn until it succeeds or the attempt budget is exhausted.
// Between attempts it sleeps BaseDelay, 2*BaseDelay, 4*BaseDelay, ...
// Context cancellation aborts the wait and returns the context error.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = defaultSleep
	}

	var lastErr error
	delay := p.BaseDelay
	for attempt := 0; attempt < p.Attempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, delay); err != nil {
				return err
			}
			delay *= 2
		}

		if err := fn(ctx); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("all %d attempts failed: %w", p.Attempts, lastErr)
}
