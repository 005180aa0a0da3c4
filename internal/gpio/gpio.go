// Package gpio provides raw button input reading with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader samples the raw levels of up to eight input lines.
type Reader interface {
	// Read returns the raw levels as a bitfield: bit i is line i.
	// Lines are active-low and pulled up, so an idle line reads 1 and a
	// pressed button reads 0. Unused bits read 1.
	Read() (uint8, error)

	// Close releases GPIO resources.
	Close() error
}

// Idle is the raw reading with no button pressed.
const Idle uint8 = 0xFF

// Default button pins (BCM numbering) for Mode, Increment, Decrement.
const (
	DefaultPinMode      = 5
	DefaultPinIncrement = 6
	DefaultPinDecrement = 13
)

// DefaultChip is the GPIO character device the lines are requested from.
const DefaultChip = "gpiochip0"
