//go:build linux

package display

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealOutput drives segment and digit-select lines through the Linux GPIO
// character device.
type RealOutput struct {
	chip     *gpiocdev.Chip
	segments *gpiocdev.Lines
	digits   *gpiocdev.Lines
	segVals  []int
	digVals  []int
	dark     []int
}

// NewRealOutput requests 8 segment lines (a..g, dp) and 4 digit-select lines
// as outputs, starting dark.
func NewRealOutput(chipName string, segmentPins, digitPins []int) (*RealOutput, error) {
	if len(segmentPins) != 8 {
		return nil, fmt.Errorf("display: want 8 segment pins, got %d", len(segmentPins))
	}
	if len(digitPins) != Positions {
		return nil, fmt.Errorf("display: want %d digit pins, got %d", Positions, len(digitPins))
	}

	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	dark := make([]int, len(digitPins))
	digits, err := chip.RequestLines(digitPins, gpiocdev.AsOutput(dark...))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request digit pins %v: %w", digitPins, err)
	}

	segVals := make([]int, len(segmentPins))
	for i := range segVals {
		segVals[i] = 1
	}
	segments, err := chip.RequestLines(segmentPins, gpiocdev.AsOutput(segVals...))
	if err != nil {
		digits.Close()
		chip.Close()
		return nil, fmt.Errorf("request segment pins %v: %w", segmentPins, err)
	}

	return &RealOutput{
		chip:     chip,
		segments: segments,
		digits:   digits,
		segVals:  segVals,
		digVals:  make([]int, len(digitPins)),
		dark:     dark,
	}, nil
}

// Write switches every digit off, sets the segment lines, then selects the
// requested digits, so a pattern never shows on the previous position.
func (o *RealOutput) Write(segments, digits uint8) error {
	if err := o.digits.SetValues(o.dark); err != nil {
		return fmt.Errorf("clear digit pins: %w", err)
	}

	for i := range o.segVals {
		o.segVals[i] = int(segments>>i) & 1
	}
	if err := o.segments.SetValues(o.segVals); err != nil {
		return fmt.Errorf("set segment pins: %w", err)
	}

	for i := range o.digVals {
		o.digVals[i] = int(digits>>i) & 1
	}
	if err := o.digits.SetValues(o.digVals); err != nil {
		return fmt.Errorf("set digit pins: %w", err)
	}
	return nil
}

// Close turns the display off and releases the lines.
func (o *RealOutput) Close() error {
	var errs []error

	if o.digits != nil {
		if err := o.digits.SetValues(o.dark); err != nil {
			errs = append(errs, fmt.Errorf("clear digit pins: %w", err))
		}
		if err := o.digits.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close digit pins: %w", err))
		}
	}
	if o.segments != nil {
		if err := o.segments.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close segment pins: %w", err))
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %w", errors.Join(errs...))
	}
	return nil
}
