//go:build !linux

package display

import "errors"

// RealOutput is not available on non-Linux platforms.
type RealOutput struct{}

// NewRealOutput returns an error on non-Linux platforms.
func NewRealOutput(chip string, segmentPins, digitPins []int) (*RealOutput, error) {
	return nil, errors.New("display: not supported on this platform (requires Linux)")
}

// Write is not implemented on non-Linux platforms.
func (o *RealOutput) Write(segments, digits uint8) error {
	return errors.New("display: not supported")
}

// Close is not implemented on non-Linux platforms.
func (o *RealOutput) Close() error {
	return nil
}
