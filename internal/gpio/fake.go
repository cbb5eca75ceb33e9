package gpio

import (
	"errors"
	"fmt"
)

// FakePair is a test double that simulates the RC divider.
//
// Each sampling cycle drives pin A high and then polls pin B until it reads
// high. ChargeCounts scripts how many Low reads precede the High on
// successive cycles; when the script is exhausted the last entry repeats.
// A count at or above the sampler's ceiling simulates a near-open circuit.
type FakePair struct {
	// ChargeCounts contains scripted charge times, one per cycle.
	ChargeCounts []uint32

	// Ops records every capability call in order, for asserting the
	// discharge-before-charge sequence.
	Ops []string

	// SetInputErr, SetOutputErr and ReadErr, if set, are returned by the
	// corresponding method.
	SetInputErr  error
	SetOutputErr error
	ReadErr      error

	// Closed tracks if Close was called.
	Closed bool

	charges   int // number of charge phases started
	readCount uint32
}

// NewFakePair creates a FakePair with the given scripted charge counts.
func NewFakePair(chargeCounts []uint32) *FakePair {
	return &FakePair{ChargeCounts: chargeCounts}
}

// SetInput records the mode switch.
func (f *FakePair) SetInput(p Pin) error {
	if f.SetInputErr != nil {
		return f.SetInputErr
	}
	f.Ops = append(f.Ops, fmt.Sprintf("input %s", p))
	return nil
}

// SetOutput records the mode switch. Driving pin A high starts a new charge
// phase and advances the script.
func (f *FakePair) SetOutput(p Pin, level Level) error {
	if f.SetOutputErr != nil {
		return f.SetOutputErr
	}
	f.Ops = append(f.Ops, fmt.Sprintf("output %s=%d", p, level))
	if p == PinA && level == High {
		f.charges++
		f.readCount = 0
	}
	return nil
}

// Read returns Low for the scripted number of polls of the current cycle,
// then High.
func (f *FakePair) Read(p Pin) (Level, error) {
	if f.ReadErr != nil {
		return Low, f.ReadErr
	}
	if len(f.ChargeCounts) == 0 {
		return Low, errors.New("no charge counts configured")
	}
	if f.charges == 0 {
		return Low, errors.New("read before charge phase")
	}

	idx := f.charges - 1
	if idx > len(f.ChargeCounts)-1 {
		idx = len(f.ChargeCounts) - 1
	}
	if f.readCount >= f.ChargeCounts[idx] {
		return High, nil
	}
	f.readCount++
	return Low, nil
}

// Close marks the pair as closed.
func (f *FakePair) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the script and clears recorded operations.
func (f *FakePair) Reset() {
	f.Ops = nil
	f.charges = 0
	f.readCount = 0
	f.Closed = false
}
