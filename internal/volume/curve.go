// Package volume turns raw charge-time counts into a conditioned control
// value in [0.0, 1.0]: normalize against the configured count range, shape
// through a perceptual curve, then slew-limit over time.
package volume

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
)

// Curve selects the perceptual mapping applied to the normalized position.
type Curve int

const (
	// CurveLinear passes the normalized position through unchanged.
	CurveLinear Curve = iota
	// CurveLog maps position to decibels linearly, which the ear perceives
	// as even loudness steps. This is the right choice for audio gain.
	CurveLog
	// CurveExp squares the position, a cheap approximation of log taper.
	CurveExp
)

func (c Curve) String() string {
	switch c {
	case CurveLog:
		return "log"
	case CurveExp:
		return "exp"
	default:
		return "linear"
	}
}

// ParseCurve maps a config string to a Curve. Accepts the long spellings
// "logarithmic" and "exponential" too.
func ParseCurve(s string) (Curve, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "":
		return CurveLinear, nil
	case "log", "logarithmic":
		return CurveLog, nil
	case "exp", "exponential":
		return CurveExp, nil
	}
	return CurveLinear, fmt.Errorf("unknown curve %q", s)
}

// silenceEpsilon is the position at or below which LinearToDB reports the
// bottom of the dB range outright.
const silenceEpsilon = 1e-4

// Normalize maps a raw count onto [0.0, 1.0] within the [min, max] range,
// clamping outside it. A degenerate range (max <= min) yields 0.0.
func Normalize(raw, min, max uint32) float32 {
	if max <= min {
		return 0.0
	}
	if raw <= min {
		return 0.0
	}
	if raw >= max {
		return 1.0
	}
	return float32(raw-min) / float32(max-min)
}

// ApplyCurve shapes a normalized position through the selected curve. Input
// and output are both in [0.0, 1.0].
//
// The log curve interprets position as a linear sweep across [dbMin, dbMax]
// decibels, converts to amplitude, and renormalizes so the output still
// spans the full unit interval. Position 0.0 is forced to exactly 0.0
// (silence) rather than the small positive amplitude dbMin maps to.
func ApplyCurve(pos float32, curve Curve, dbMin, dbMax float32) float32 {
	pos = clamp01(pos)
	switch curve {
	case CurveLog:
		if pos == 0.0 {
			return 0.0
		}
		db := dbMin + (dbMax-dbMin)*pos
		amp := math32.Pow(10, db/20)
		ampMin := math32.Pow(10, dbMin/20)
		ampMax := math32.Pow(10, dbMax/20)
		if ampMax <= ampMin {
			return 0.0
		}
		return clamp01((amp - ampMin) / (ampMax - ampMin))
	case CurveExp:
		return pos * pos
	default:
		return pos
	}
}

// LinearToDB maps a position in [0.0, 1.0] onto the [dbMin, dbMax] decibel
// range, the same affine sweep the log curve uses. Positions at or below
// silenceEpsilon report dbMin, so payloads and logs never leave the
// configured range.
func LinearToDB(linear, dbMin, dbMax float32) float32 {
	if linear <= silenceEpsilon {
		return dbMin
	}
	return dbMin + (dbMax-dbMin)*clamp01(linear)
}

func clamp01(v float32) float32 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
