package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for pacing browser activity
type Limiter interface {
	// Allow reports whether an action may run now without waiting
	Allow() bool
	// Wait blocks until the next action may run or ctx is done
	Wait(ctx context.Context) error
	// Reset forgets previous actions
	Reset()
}

// Throttle spaces actions at least interval apart. The first action
// runs immediately.
type Throttle struct {
	interval time.Duration
	mu       sync.Mutex
	limiter  *rate.Limiter
}

// NewThrottle creates a throttle. A non-positive interval never blocks.
func NewThrottle(interval time.Duration) *Throttle {
	t := &Throttle{interval: interval}
	t.Reset()
	return t
}

func (t *Throttle) Allow() bool {
	return t.current().Allow()
}

func (t *Throttle) Wait(ctx context.Context) error {
	return t.current().Wait(ctx)
}

func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.interval <= 0 {
		t.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	t.limiter = rate.NewLimiter(rate.Every(t.interval), 1)
}

func (t *Throttle) current() *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.limiter
}

// Jitter pauses for a random duration in [min, max] on every Wait. It is
// the courtesy delay between two scrape targets.
type Jitter struct {
	min, max time.Duration
	mu       sync.Mutex
	rng      *rand.Rand
	last     time.Time
}

// NewJitter creates a jitter pacer. max below min is raised to min.
func NewJitter(min, max time.Duration) *Jitter {
	if max < min {
		max = min
	}
	return &Jitter{
		min: min,
		max: max,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next draws the next pause length
func (j *Jitter) Next() time.Duration {
	j.mu.Lock()
	defer j.mu.Unlock()

	spread := j.max - j.min
	if spread <= 0 {
		return j.min
	}
	return j.min + time.Duration(j.rng.Int63n(int64(spread)+1))
}

// Allow reports whether at least min has passed since the last Wait
func (j *Jitter) Allow() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.last.IsZero() || time.Since(j.last) >= j.min
}

func (j *Jitter) Wait(ctx context.Context) error {
	d := j.Next()
	defer func() {
		j.mu.Lock()
		j.last = time.Now()
		j.mu.Unlock()
	}()

	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (j *Jitter) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.last = time.Time{}
}
