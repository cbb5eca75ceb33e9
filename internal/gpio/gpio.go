// Package gpio provides the two-pin capability used by the charge-time
// sampler. The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Pin identifies one of the two lines in a pair.
type Pin int

const (
	// PinA drives the RC network high during the charge phase.
	PinA Pin = iota
	// PinB sinks the discharge current and senses the charge threshold.
	PinB
)

func (p Pin) String() string {
	if p == PinA {
		return "A"
	}
	return "B"
}

// Level is a digital logic level.
type Level int

const (
	Low  Level = 0
	High Level = 1
)

// Pair is a pair of GPIO lines, each independently switchable between input
// and output mode. This is the whole capability the sampler needs; pulls,
// edge events and the rest of the line API stay out of the interface so a
// different backend can satisfy it.
type Pair interface {
	// SetInput switches the pin to input (high impedance).
	SetInput(p Pin) error

	// SetOutput switches the pin to output, driving the given level.
	SetOutput(p Pin, level Level) error

	// Read returns the pin's current logic level.
	Read(p Pin) (Level, error)

	// Close releases both lines.
	Close() error
}

// Default BCM pin assignments for the RC divider.
const (
	DefaultPinA = 18
	DefaultPinB = 24
)
