package retry

import (
	"context"
	"time"
)

// BackoffStrategy decides how long to wait after a failed attempt
type BackoffStrategy interface {
	// NextDelay returns the pause after failed attempt n (1-based)
	NextDelay(attempt int) time.Duration
}

// StepBackoff waits Base after the first failure and Step longer after
// each following one, never more than Max. A page that re-renders slowly
// gets more time on every attempt.
type StepBackoff struct {
	Base time.Duration
	Step time.Duration
	Max  time.Duration
}

// DefaultStepBackoff waits 1s, 2s, 3s... capped at 5s
func DefaultStepBackoff() *StepBackoff {
	return &StepBackoff{Base: time.Second, Step: time.Second, Max: 5 * time.Second}
}

func (b *StepBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	d := b.Base + b.Step*time.Duration(attempt-1)
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}

// ConstantBackoff waits the same Delay after every failure
type ConstantBackoff struct {
	Delay time.Duration
}

func (b *ConstantBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return b.Delay
}

// Wait sleeps for delay unless ctx ends first. A non-positive delay only
// reports whether ctx has already ended.
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
