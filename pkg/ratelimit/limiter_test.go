package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottle(t *testing.T) {
	th := NewThrottle(200 * time.Millisecond)

	assert.True(t, th.Allow(), "first action runs immediately")
	assert.False(t, th.Allow(), "second action must wait for the interval")

	start := time.Now()
	require.NoError(t, th.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)

	th.Reset()
	assert.True(t, th.Allow())
}

func TestThrottleWithoutInterval(t *testing.T) {
	th := NewThrottle(0)
	for i := 0; i < 10; i++ {
		assert.True(t, th.Allow())
	}
	require.NoError(t, th.Wait(context.Background()))
}

func TestThrottleWaitHonoursContext(t *testing.T) {
	th := NewThrottle(time.Hour)
	require.True(t, th.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, th.Wait(ctx))
}

func TestJitterNextStaysInRange(t *testing.T) {
	j := NewJitter(3*time.Second, 7*time.Second)
	for i := 0; i < 200; i++ {
		d := j.Next()
		assert.GreaterOrEqual(t, d, 3*time.Second)
		assert.LessOrEqual(t, d, 7*time.Second)
	}

	fixed := NewJitter(2*time.Second, time.Second)
	assert.Equal(t, 2*time.Second, fixed.Next())
}

func TestJitterWait(t *testing.T) {
	j := NewJitter(100*time.Millisecond, 120*time.Millisecond)
	assert.True(t, j.Allow())

	start := time.Now()
	require.NoError(t, j.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
	assert.False(t, j.Allow())

	j.Reset()
	assert.True(t, j.Allow())
}

func TestJitterWaitCancelled(t *testing.T) {
	j := NewJitter(time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	assert.ErrorIs(t, j.Wait(ctx), context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestLimiterInterface(t *testing.T) {
	var _ Limiter = NewThrottle(time.Second)
	var _ Limiter = NewJitter(time.Second, 2*time.Second)
}
