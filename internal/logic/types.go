// Package logic contains the pure clock logic: button debouncing, time keeping,
// the mode state machine and the cadence counters that pace them.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable, either as tick calls or as time.Time parameters.
package logic

import "time"

// ButtonState is the debounced logical state of a button channel.
type ButtonState string

const (
	ButtonUp    ButtonState = "UP"
	ButtonDown  ButtonState = "DOWN"  // stable press observed, not yet released
	ButtonPress ButtonState = "PRESS" // completed press, consumable once
	ButtonHold  ButtonState = "HOLD"  // held past the hold threshold
)

// Button channel indices. Only three of the eight channels are wired.
const (
	ButtonMode = iota
	ButtonIncrement
	ButtonDecrement
)

// MaxChannels is the number of raw input lines the debouncer samples.
const MaxChannels = 8

// Field identifies one component of the time value.
type Field int

const (
	FieldSeconds Field = iota
	FieldMinutes
	FieldHours
)

func (f Field) String() string {
	switch f {
	case FieldSeconds:
		return "SECONDS"
	case FieldMinutes:
		return "MINUTES"
	case FieldHours:
		return "HOURS"
	}
	return "UNKNOWN"
}

// Modulus returns the wraparound bound of the field.
func (f Field) Modulus() uint8 {
	if f == FieldHours {
		return 24
	}
	return 60
}

// EventType represents a clock state change worth reporting.
type EventType string

const (
	EventModeChanged  EventType = "MODE_CHANGED"
	EventTimeAdjusted EventType = "TIME_ADJUSTED"
)

// Event is produced by the state machine when a button action is applied.
type Event struct {
	Type EventType
	Mode Mode // mode after the event
	From Mode // MODE_CHANGED only

	Field  Field // TIME_ADJUSTED only
	Delta  int   // +1 or -1
	Repeat bool  // applied by hold-repeat rather than a single press
	Time   TimeValue
}

// EventCounts tracks the number of applied actions since startup.
type EventCounts struct {
	ModeChanges int
	Increments  int
	Decrements  int
	Repeats     int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
