package volume

import "time"

// Config holds the conditioning parameters. Zero value is not useful; use
// DefaultConfig as the base.
type Config struct {
	// RangeMin and RangeMax bound the raw counts mapped onto [0, 1].
	RangeMin uint32
	RangeMax uint32

	// Curve shapes the normalized position; DBMin and DBMax set the decibel
	// span of the log curve.
	Curve Curve
	DBMin float32
	DBMax float32

	// RateUp and RateDown cap the slew speed in units per second.
	// RateLimit turns the limiter off entirely when false.
	RateUp    float32
	RateDown  float32
	RateLimit bool
}

// DefaultConfig returns the conditioning parameters the hardware was tuned
// with: full charge-count span, log taper over -60..0 dB, slow rise and
// faster fall.
func DefaultConfig() Config {
	return Config{
		RangeMin:  0,
		RangeMax:  1_000_000,
		Curve:     CurveLog,
		DBMin:     -60,
		DBMax:     0,
		RateUp:    0.5,
		RateDown:  1.0,
		RateLimit: true,
	}
}

// Result carries every intermediate of one conditioning pass, so status
// reporting can show where a surprising output came from.
type Result struct {
	Raw    uint32
	Linear float32 // normalized position
	Curved float32 // after the perceptual curve
	Value  float32 // after slew limiting; the published value
	DB     float32 // Value expressed in decibels
}

// Pipeline runs raw counts through normalize, curve and slew limiting. Not
// safe for concurrent use; the sampling loop is its only caller.
type Pipeline struct {
	cfg     Config
	limiter *RateLimiter
}

// NewPipeline creates a pipeline for the given config.
func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		limiter: NewRateLimiter(cfg.RateUp, cfg.RateDown),
	}
}

// Process conditions one raw reading at the given instant.
func (p *Pipeline) Process(raw uint32, now time.Time) Result {
	linear := Normalize(raw, p.cfg.RangeMin, p.cfg.RangeMax)
	curved := ApplyCurve(linear, p.cfg.Curve, p.cfg.DBMin, p.cfg.DBMax)

	value := curved
	if p.cfg.RateLimit {
		value = p.limiter.Update(curved, now)
	}

	return Result{
		Raw:    raw,
		Linear: linear,
		Curved: curved,
		Value:  value,
		DB:     LinearToDB(value, p.cfg.DBMin, p.cfg.DBMax),
	}
}

// Config returns the parameters the pipeline was built with.
func (p *Pipeline) Config() Config {
	return p.cfg
}
