package volume

import (
	"time"

	"github.com/chewxy/math32"
)

// snapEpsilon is how close the limited value must get to the target before
// it snaps to it exactly, so the output settles instead of asymptoting.
const snapEpsilon = 0.001

// RateLimiter slews its output toward a moving target at bounded speed, with
// independent rates for rising and falling. For audio gain the down rate is
// typically faster: cutting volume late is worse than raising it late.
//
// Step size is computed from real elapsed time, so the effective rate in
// units per second holds regardless of how often Update is called.
type RateLimiter struct {
	current    float32
	upPerSec   float32
	downPerSec float32
	lastUpdate time.Time
}

// NewRateLimiter creates a limiter starting at 0.0 with the given maximum
// rates of change in units per second.
func NewRateLimiter(upPerSec, downPerSec float32) *RateLimiter {
	return &RateLimiter{upPerSec: upPerSec, downPerSec: downPerSec}
}

// Update moves the output one bounded step toward target and returns it. The
// caller supplies the clock; the first call observes zero elapsed time and
// so returns (nearly) the initial value.
func (r *RateLimiter) Update(target float32, now time.Time) float32 {
	target = clamp01(target)

	var elapsed float32
	if !r.lastUpdate.IsZero() {
		elapsed = float32(now.Sub(r.lastUpdate).Seconds())
		if elapsed < 0 {
			elapsed = 0
		}
	}
	r.lastUpdate = now

	diff := target - r.current
	if math32.Abs(diff) <= snapEpsilon {
		r.current = target
		return r.current
	}

	var step float32
	if diff > 0 {
		step = r.upPerSec * elapsed
		if step > diff {
			step = diff
		}
	} else {
		step = -r.downPerSec * elapsed
		if step < diff {
			step = diff
		}
	}

	r.current = clamp01(r.current + step)
	return r.current
}

// Current returns the present output without advancing it.
func (r *RateLimiter) Current() float32 {
	return r.current
}
