package volume

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineLinearNoLimit(t *testing.T) {
	p := NewPipeline(Config{
		RangeMin: 0,
		RangeMax: 100000,
		Curve:    CurveLinear,
	})

	res := p.Process(50000, t0)
	assert.InDelta(t, 0.5, res.Linear, 1e-6)
	assert.InDelta(t, 0.5, res.Curved, 1e-6)
	assert.InDelta(t, 0.5, res.Value, 1e-6)
	assert.Equal(t, uint32(50000), res.Raw)
}

func TestPipelineLogCurve(t *testing.T) {
	p := NewPipeline(Config{
		RangeMin: 0,
		RangeMax: 100000,
		Curve:    CurveLog,
		DBMin:    -60,
		DBMax:    0,
	})

	res := p.Process(50000, t0)
	require.InDelta(t, 0.5, res.Linear, 1e-6)

	ampMin := math32.Pow(10, -60.0/20)
	want := (math32.Pow(10, -30.0/20) - ampMin) / (1.0 - ampMin)
	assert.InDelta(t, want, res.Curved, 1e-5)
	assert.InDelta(t, want, res.Value, 1e-5)
	assert.InDelta(t, LinearToDB(want, -60, 0), res.DB, 1e-4)
}

func TestPipelineRateLimited(t *testing.T) {
	p := NewPipeline(Config{
		RangeMin:  0,
		RangeMax:  100000,
		Curve:     CurveLinear,
		RateUp:    0.1,
		RateDown:  0.3,
		RateLimit: true,
	})

	// Seed the limiter clock.
	res := p.Process(100000, t0)
	assert.InDelta(t, 0.0, res.Value, 1e-6)

	// After 1s the value has risen by at most the up rate, even though the
	// curved target sits at 1.0.
	res = p.Process(100000, t0.Add(time.Second))
	assert.InDelta(t, 1.0, res.Curved, 1e-6)
	assert.InDelta(t, 0.1, res.Value, 1e-4)
}

func TestPipelineRateLimitDisabled(t *testing.T) {
	p := NewPipeline(Config{
		RangeMin: 0,
		RangeMax: 100000,
		Curve:    CurveLinear,
		RateUp:   0.1,
		RateDown: 0.3,
	})

	res := p.Process(100000, t0)
	assert.Equal(t, float32(1.0), res.Value)
}

func TestPipelineCeilingReading(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = false
	p := NewPipeline(cfg)

	res := p.Process(cfg.RangeMax, t0)
	assert.Equal(t, float32(1.0), res.Linear)
	assert.InDelta(t, 1.0, res.Value, 1e-5)
	assert.InDelta(t, 0.0, res.DB, 1e-3)
}

func TestPipelineSilence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimit = false
	p := NewPipeline(cfg)

	res := p.Process(0, t0)
	assert.Equal(t, float32(0.0), res.Value)
	assert.Equal(t, float32(-60.0), res.DB)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, uint32(1_000_000), cfg.RangeMax)
	assert.Equal(t, CurveLog, cfg.Curve)
	assert.True(t, cfg.RateLimit)
	assert.Greater(t, cfg.RateDown, cfg.RateUp)
}
