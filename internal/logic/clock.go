package logic

import (
	"errors"
	"fmt"
)

// Display mask bits. Bit i enables digit position i.
const (
	MaskAll   uint8 = 0xFF
	MaskLeft  uint8 = 0x03 // positions 0 and 1
	MaskRight uint8 = 0x0C // positions 2 and 3
)

// Default cadences in millisecond ticks.
const (
	DefaultBlinkTicks  = 250
	DefaultRepeatTicks = 100
)

// Layout describes which time fields exist and which display views are
// enabled, in the order the Mode button cycles through them.
type Layout struct {
	TrackHours bool
	Views      []View
}

// LayoutHMS tracks hours and offers both views, starting at HOUR_MIN.
func LayoutHMS() Layout {
	return Layout{TrackHours: true, Views: []View{ViewHourMin, ViewMinSec}}
}

// LayoutMS tracks minutes and seconds only, with the single MIN_SEC view.
func LayoutMS() Layout {
	return Layout{Views: []View{ViewMinSec}}
}

// Validate checks that the layout has at least one view, no duplicates, and
// does not show hours when hours are not tracked.
func (l Layout) Validate() error {
	if len(l.Views) == 0 {
		return errors.New("layout: no views enabled")
	}
	seen := make(map[View]bool, len(l.Views))
	for _, v := range l.Views {
		if v != ViewHourMin && v != ViewMinSec {
			return fmt.Errorf("layout: unknown view %d", v)
		}
		if seen[v] {
			return fmt.Errorf("layout: view %s listed twice", v)
		}
		seen[v] = true
		if v == ViewHourMin && !l.TrackHours {
			return fmt.Errorf("layout: view %s requires hours", v)
		}
	}
	return nil
}

// ClockConfig configures a Clock.
type ClockConfig struct {
	Layout      Layout
	BlinkTicks  uint16 // millisecond ticks between blink mask updates
	RepeatTicks uint16 // minimum millisecond ticks between hold-repeat steps
	Initial     TimeValue
}

// Clock is the mode state machine. It owns the time value, the current mode
// and the display mask. It is not safe for concurrent use; all calls come
// from the polling loop.
type Clock struct {
	layout Layout
	time   TimeValue
	mode   Mode
	view   int // index into layout.Views of the current display view
	mask   uint8
	blink  Cadence
	repeat Cadence
	counts EventCounts
}

// NewClock creates a clock in the first configured display view.
func NewClock(cfg ClockConfig) (*Clock, error) {
	if err := cfg.Layout.Validate(); err != nil {
		return nil, err
	}
	if cfg.BlinkTicks == 0 {
		cfg.BlinkTicks = DefaultBlinkTicks
	}
	if cfg.RepeatTicks == 0 {
		cfg.RepeatTicks = DefaultRepeatTicks
	}
	initial := cfg.Initial
	if !cfg.Layout.TrackHours {
		initial.Hours = 0
	}
	return &Clock{
		layout: cfg.Layout,
		time:   initial,
		mode:   Mode{View: cfg.Layout.Views[0]},
		mask:   MaskAll,
		blink:  NewCadence(cfg.BlinkTicks),
		repeat: NewCadence(cfg.RepeatTicks),
	}, nil
}

// SecondTick advances the time by one second unless a field is being edited.
// It reports whether the time advanced.
func (c *Clock) SecondTick() bool {
	if c.mode.Editing() {
		return false
	}
	c.time.Advance(c.layout.TrackHours)
	return true
}

// MilliTick advances the blink and hold-repeat cadences. When the blink
// cadence elapses the display mask is recomputed from the mode.
func (c *Clock) MilliTick() {
	c.repeat.Advance()
	if c.blink.Tick() {
		c.updateMask()
	}
}

func (c *Clock) updateMask() {
	switch c.mode.Edit {
	case EditLeft:
		c.mask = ^(c.mask & MaskLeft)
	case EditRight:
		c.mask = ^(c.mask & MaskRight)
	default:
		c.mask = MaskAll
	}
}

// Apply consumes debounced button states and returns the resulting events.
// The Mode button is handled first, then Increment, then Decrement.
// PRESS states are acknowledged whether or not they had an effect; HOLD on
// Increment/Decrement is left in place so it keeps repeating.
func (c *Clock) Apply(d *Debouncer) []Event {
	var events []Event

	if e := c.applyMode(d); e != nil {
		events = append(events, *e)
	}
	if e := c.applyDelta(d, ButtonIncrement, 1); e != nil {
		events = append(events, *e)
	}
	if e := c.applyDelta(d, ButtonDecrement, -1); e != nil {
		events = append(events, *e)
	}

	return events
}

func (c *Clock) applyMode(d *Debouncer) *Event {
	state := d.State(ButtonMode)
	if state != ButtonPress && state != ButtonHold {
		return nil
	}
	d.Acknowledge(ButtonMode)

	from := c.mode
	switch {
	case c.mode.Editing():
		c.mode = c.mode.next()
	case state == ButtonHold:
		c.mode = c.mode.next()
	case len(c.layout.Views) > 1:
		c.view = (c.view + 1) % len(c.layout.Views)
		c.mode = Mode{View: c.layout.Views[c.view]}
	}

	if c.mode == from {
		return nil
	}
	c.counts.ModeChanges++
	return &Event{Type: EventModeChanged, Mode: c.mode, From: from, Time: c.time}
}

func (c *Clock) applyDelta(d *Debouncer, button, delta int) *Event {
	field, editing := c.mode.EditField()

	repeat := false
	switch d.State(button) {
	case ButtonPress:
		d.Acknowledge(button)
		if !editing {
			return nil
		}
	case ButtonHold:
		if !editing || !c.repeat.Due() {
			return nil
		}
		c.repeat.Reset()
		repeat = true
	default:
		return nil
	}

	c.time.Adjust(field, delta)
	if delta > 0 {
		c.counts.Increments++
	} else {
		c.counts.Decrements++
	}
	if repeat {
		c.counts.Repeats++
	}
	return &Event{Type: EventTimeAdjusted, Mode: c.mode, Field: field, Delta: delta, Repeat: repeat, Time: c.time}
}

// Time returns the current time value.
func (c *Clock) Time() TimeValue {
	return c.time
}

// Mode returns the current mode.
func (c *Clock) Mode() Mode {
	return c.mode
}

// Mask returns the current display mask.
func (c *Clock) Mask() uint8 {
	return c.mask
}

// Fields returns the values shown in the left and right digit groups.
func (c *Clock) Fields() (left, right uint8) {
	lf, rf := c.mode.View.Fields()
	return c.time.Get(lf), c.time.Get(rf)
}

// Layout returns the clock's layout.
func (c *Clock) Layout() Layout {
	return c.layout
}

// EventCountsSnapshot returns a copy of the event counters.
func (c *Clock) EventCountsSnapshot() EventCounts {
	return c.counts
}
