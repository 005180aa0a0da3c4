//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads button lines from actual hardware using the Linux GPIO
// character device.
type RealReader struct {
	chip   *gpiocdev.Chip
	lines  *gpiocdev.Lines
	values []int
}

// NewRealReader requests the given pins (BCM offsets, at most eight) as
// inputs with pull-up. pins[i] becomes bit i of each reading.
func NewRealReader(chipName string, pins []int) (*RealReader, error) {
	if len(pins) == 0 || len(pins) > 8 {
		return nil, fmt.Errorf("gpio: want 1..8 button pins, got %d", len(pins))
	}

	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Buttons switch to ground; the pull-up holds idle lines high.
	lines, err := chip.RequestLines(pins, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pins %v: %w", pins, err)
	}

	return &RealReader{
		chip:   chip,
		lines:  lines,
		values: make([]int, len(pins)),
	}, nil
}

// Read returns the raw levels of the button lines. Bits above the number of
// requested pins read 1 (idle).
func (r *RealReader) Read() (uint8, error) {
	if err := r.lines.Values(r.values); err != nil {
		return Idle, fmt.Errorf("read button pins: %w", err)
	}

	raw := Idle
	for i, v := range r.values {
		if v == 0 {
			raw &^= 1 << i
		}
	}
	return raw, nil
}

// Close releases GPIO resources.
// Reconfigures lines to input with pull-down (matching Pi boot defaults)
// before closing.
func (r *RealReader) Close() error {
	var errs []error

	if r.lines != nil {
		if err := r.lines.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure button pins: %w", err))
		}
		if err := r.lines.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pins: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %w", errors.Join(errs...))
	}
	return nil
}
