package logic

// Default sample thresholds. At a 10ms sample cadence these are 30ms of
// stable level for a press and one second for a hold.
const (
	DefaultPressSamples = 3
	DefaultHoldSamples  = 100
)

// sampleCeiling is where the consecutive-sample counters saturate.
const sampleCeiling = 255

// ButtonChannel tracks debounce state for a single input line.
// At most one of Active and Inactive is non-zero.
type ButtonChannel struct {
	// Consecutive samples with the line asserted (pulled low).
	Active uint8
	// Consecutive samples with the line released.
	Inactive uint8
	// Stabilized logical state.
	State ButtonState
}

// Debouncer converts raw active-low samples of up to eight lines into
// logical button states by counting consecutive identical samples.
type Debouncer struct {
	pressSamples uint8
	holdSamples  uint8
	channels     [MaxChannels]ButtonChannel
}

// NewDebouncer creates a debouncer with the given press and hold thresholds.
// Zero values select the defaults.
func NewDebouncer(pressSamples, holdSamples uint8) *Debouncer {
	if pressSamples == 0 {
		pressSamples = DefaultPressSamples
	}
	if holdSamples == 0 {
		holdSamples = DefaultHoldSamples
	}
	d := &Debouncer{
		pressSamples: pressSamples,
		holdSamples:  holdSamples,
	}
	for i := range d.channels {
		d.channels[i].State = ButtonUp
	}
	return d
}

// Sample feeds one raw reading of all lines. Bit i of raw is the level of
// line i; a cleared bit means the button is asserted.
func (d *Debouncer) Sample(raw uint8) {
	for i := range d.channels {
		d.sampleChannel(&d.channels[i], raw&(1<<i) == 0)
	}
}

func (d *Debouncer) sampleChannel(ch *ButtonChannel, asserted bool) {
	if asserted {
		if ch.Active < sampleCeiling {
			ch.Active++
		}
		ch.Inactive = 0
	} else {
		if ch.Inactive < sampleCeiling {
			ch.Inactive++
		}
		ch.Active = 0
	}

	if ch.Active == d.pressSamples {
		ch.State = ButtonDown
	}
	if ch.Active == d.holdSamples {
		ch.State = ButtonHold
	}
	if ch.Inactive == d.pressSamples {
		switch ch.State {
		case ButtonDown:
			ch.State = ButtonPress
		case ButtonHold:
			ch.State = ButtonUp
		}
	}
}

// State returns the logical state of channel i.
func (d *Debouncer) State(i int) ButtonState {
	return d.channels[i].State
}

// Channel returns a copy of the full debounce state of channel i.
func (d *Debouncer) Channel(i int) ButtonChannel {
	return d.channels[i]
}

// Acknowledge resets channel i to ButtonUp after its event was consumed.
// Counters are left alone so a still-held line does not re-trigger.
func (d *Debouncer) Acknowledge(i int) {
	d.channels[i].State = ButtonUp
}
