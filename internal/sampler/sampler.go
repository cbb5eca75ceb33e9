// Package sampler reads the potentiometer position as a raw charge-time
// count over a pair of digital GPIO pins.
package sampler

import (
	"fmt"
	"time"

	"github.com/sweeney/fader-sensor/internal/gpio"
)

// Defaults match the RC network this was built for: a few milliseconds fully
// discharges the capacitor through pin B, and one million polls is
// comfortably past the high-resistance end of the pot.
const (
	DefaultSettle   = 4 * time.Millisecond
	DefaultMaxCount = 1_000_000
)

// Sampler produces one raw reading per call. Implementations other than the
// charge-time one (a real ADC, a fake) must preserve the semantic: a
// relative, monotonic count, larger for larger resistance.
type Sampler interface {
	Read() (uint32, error)
}

// ChargeTime measures potentiometer resistance by timing how long the RC
// network takes to charge through it, counting poll iterations on pin B.
//
// The count is in loop iterations, not wall-clock units: absolute values are
// CPU-speed dependent and only comparable against the configured
// normalization range, never against a calibrated voltage. Reimplementations
// must keep that relative-units semantic.
type ChargeTime struct {
	pair     gpio.Pair
	settle   time.Duration
	maxCount uint32
	sleep    func(time.Duration)
}

// New creates a charge-time sampler over the given pin pair. Zero settle or
// maxCount select the defaults.
func New(pair gpio.Pair, settle time.Duration, maxCount uint32) *ChargeTime {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if maxCount == 0 {
		maxCount = DefaultMaxCount
	}
	return &ChargeTime{
		pair:     pair,
		settle:   settle,
		maxCount: maxCount,
		sleep:    time.Sleep,
	}
}

// Read performs one discharge-then-charge cycle and returns the iteration
// count. Reaching the ceiling is a defined maximum reading (near-open
// circuit), not an error. Pin capability errors are propagated as-is; the
// cycle is never retried here.
func (s *ChargeTime) Read() (uint32, error) {
	if err := s.discharge(); err != nil {
		return 0, err
	}
	return s.chargeTime()
}

// discharge drives the RC network to a known low state through pin B and
// holds it there for the settle time. The charge phase must not start before
// this completes.
func (s *ChargeTime) discharge() error {
	if err := s.pair.SetInput(gpio.PinA); err != nil {
		return fmt.Errorf("discharge: %w", err)
	}
	if err := s.pair.SetOutput(gpio.PinB, gpio.Low); err != nil {
		return fmt.Errorf("discharge: %w", err)
	}
	s.sleep(s.settle)
	return nil
}

// chargeTime charges the network through the pot from pin A and busy-polls
// pin B until it reads high or the ceiling is reached.
func (s *ChargeTime) chargeTime() (uint32, error) {
	if err := s.pair.SetInput(gpio.PinB); err != nil {
		return 0, fmt.Errorf("charge: %w", err)
	}
	if err := s.pair.SetOutput(gpio.PinA, gpio.High); err != nil {
		return 0, fmt.Errorf("charge: %w", err)
	}

	var count uint32
	for count < s.maxCount {
		level, err := s.pair.Read(gpio.PinB)
		if err != nil {
			return 0, fmt.Errorf("charge: %w", err)
		}
		if level == gpio.High {
			break
		}
		count++
	}
	return count, nil
}
