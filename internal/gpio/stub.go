//go:build !linux

package gpio

import "errors"

// RealPair is not available on non-Linux platforms.
type RealPair struct{}

// NewRealPair returns an error on non-Linux platforms.
func NewRealPair(pinA, pinB int) (*RealPair, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// SetInput is not implemented on non-Linux platforms.
func (r *RealPair) SetInput(p Pin) error {
	return errors.New("gpio: not supported")
}

// SetOutput is not implemented on non-Linux platforms.
func (r *RealPair) SetOutput(p Pin, level Level) error {
	return errors.New("gpio: not supported")
}

// Read is not implemented on non-Linux platforms.
func (r *RealPair) Read(p Pin) (Level, error) {
	return Low, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *RealPair) Close() error {
	return nil
}
