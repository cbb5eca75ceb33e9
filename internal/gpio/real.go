//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealPair drives two lines of the GPIO character device. Mode switching is
// done with Reconfigure so both lines stay requested for the process
// lifetime; requesting and releasing per phase would add milliseconds to
// every cycle.
type RealPair struct {
	chip *gpiocdev.Chip
	a    *gpiocdev.Line
	b    *gpiocdev.Line
}

// NewRealPair requests the two BCM lines on gpiochip0, both initially as
// inputs. The sampler reconfigures them per phase.
func NewRealPair(pinA, pinB int) (*RealPair, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	a, err := chip.RequestLine(pinA, gpiocdev.AsInput)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request pin A %d: %w", pinA, err)
	}

	b, err := chip.RequestLine(pinB, gpiocdev.AsInput)
	if err != nil {
		a.Close()
		chip.Close()
		return nil, fmt.Errorf("request pin B %d: %w", pinB, err)
	}

	return &RealPair{chip: chip, a: a, b: b}, nil
}

func (r *RealPair) line(p Pin) *gpiocdev.Line {
	if p == PinA {
		return r.a
	}
	return r.b
}

// SetInput switches the pin to input (high impedance).
func (r *RealPair) SetInput(p Pin) error {
	if err := r.line(p).Reconfigure(gpiocdev.AsInput); err != nil {
		return fmt.Errorf("pin %s to input: %w", p, err)
	}
	return nil
}

// SetOutput switches the pin to output, driving level.
func (r *RealPair) SetOutput(p Pin, level Level) error {
	if err := r.line(p).Reconfigure(gpiocdev.AsOutput(int(level))); err != nil {
		return fmt.Errorf("pin %s to output: %w", p, err)
	}
	return nil
}

// Read returns the pin's current logic level.
func (r *RealPair) Read(p Pin) (Level, error) {
	v, err := r.line(p).Value()
	if err != nil {
		return Low, fmt.Errorf("read pin %s: %w", p, err)
	}
	if v == 0 {
		return Low, nil
	}
	return High, nil
}

// Close reconfigures both lines back to input before releasing them, so the
// RC network is not left driven across a restart.
func (r *RealPair) Close() error {
	var errs []error

	for _, p := range []Pin{PinA, PinB} {
		line := r.line(p)
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %s: %w", p, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %s: %w", p, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
