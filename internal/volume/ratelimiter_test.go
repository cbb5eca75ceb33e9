package volume

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestRateLimiterBoundsRise(t *testing.T) {
	r := NewRateLimiter(0.05, 0.30)

	// First call seeds the clock; zero elapsed means no movement yet.
	got := r.Update(1.0, t0)
	assert.InDelta(t, 0.0, got, 1e-6)

	// One second later the output has moved at most one up-step.
	got = r.Update(1.0, t0.Add(time.Second))
	assert.InDelta(t, 0.05, got, 1e-4)
}

func TestRateLimiterBoundsFall(t *testing.T) {
	r := NewRateLimiter(0.05, 0.30)
	r.current = 1.0

	r.Update(0.0, t0)
	got := r.Update(0.0, t0.Add(time.Second))
	assert.InDelta(t, 0.70, got, 1e-4)
}

func TestRateLimiterConverges(t *testing.T) {
	r := NewRateLimiter(0.5, 1.0)

	now := t0
	for i := 0; i < 20; i++ {
		r.Update(0.8, now)
		now = now.Add(100 * time.Millisecond)
	}
	// 2 seconds at 0.5/s covers the 0.8 distance; must have settled exactly.
	assert.Equal(t, float32(0.8), r.Current())
}

func TestRateLimiterSnapsNearTarget(t *testing.T) {
	r := NewRateLimiter(0.5, 1.0)
	r.current = 0.7995

	got := r.Update(0.8, t0)
	assert.Equal(t, float32(0.8), got)
}

func TestRateLimiterProportionalToElapsed(t *testing.T) {
	r := NewRateLimiter(0.2, 0.2)

	r.Update(1.0, t0)
	got := r.Update(1.0, t0.Add(250*time.Millisecond))
	assert.InDelta(t, 0.05, got, 1e-4)
}

func TestRateLimiterNeverOvershoots(t *testing.T) {
	r := NewRateLimiter(10.0, 10.0)

	r.Update(0.3, t0)
	got := r.Update(0.3, t0.Add(time.Second))
	assert.Equal(t, float32(0.3), got)
}

func TestRateLimiterClampsTarget(t *testing.T) {
	r := NewRateLimiter(100.0, 100.0)

	r.Update(2.0, t0)
	got := r.Update(2.0, t0.Add(time.Second))
	assert.Equal(t, float32(1.0), got)
}

func TestRateLimiterIgnoresBackwardClock(t *testing.T) {
	r := NewRateLimiter(0.5, 0.5)

	r.Update(1.0, t0)
	got := r.Update(1.0, t0.Add(-time.Second))
	assert.InDelta(t, 0.0, got, 1e-6)
}
