package logic

// Cadence derives a slower periodic action from the millisecond tick.
// The counter saturates at its period, so a gate that is not reset stays due.
type Cadence struct {
	period uint16
	count  uint16
}

// NewCadence creates a cadence that becomes due every period ticks.
// A zero period is treated as 1.
func NewCadence(period uint16) Cadence {
	if period == 0 {
		period = 1
	}
	return Cadence{period: period}
}

// Advance counts one tick.
func (c *Cadence) Advance() {
	if c.count < c.period {
		c.count++
	}
}

// Due reports whether the period has elapsed since the last reset.
func (c *Cadence) Due() bool {
	return c.count >= c.period
}

// Reset restarts the period.
func (c *Cadence) Reset() {
	c.count = 0
}

// Tick advances the cadence and, if it became due, resets it and returns true.
// Free-running cadences (display refresh, debounce poll, blink) use this.
func (c *Cadence) Tick() bool {
	c.Advance()
	if c.Due() {
		c.Reset()
		return true
	}
	return false
}

// Count returns the ticks counted since the last reset.
func (c *Cadence) Count() uint16 {
	return c.count
}
