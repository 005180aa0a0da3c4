// Package display drives a four-digit multiplexed seven-segment display.
//
// The Multiplexer lights exactly one digit position per call, cycling
// through positions 0..3. Positions 0/1 show the tens/units of the left
// field and positions 2/3 the tens/units of the right field. The hardware
// output is touched only inside Refresh and Blank.
package display

// Output writes one digit frame to the display hardware.
type Output interface {
	// Write sets the segment pattern and the digit-select lines.
	// digits is one bit per position; 0 turns every position off.
	Write(segments, digits uint8) error

	// Close releases the output lines.
	Close() error
}

// Positions is the number of physical digit positions.
const Positions = 4

// Segment patterns for a common-anode display, bit 0 = segment a .. bit 6 =
// segment g, bit 7 = decimal point. A cleared bit lights the segment.
var digitSegments = [10]uint8{0x40, 0x79, 0x24, 0x30, 0x19, 0x12, 0x02, 0x78, 0x00, 0x18}

// SegmentsBlank lights nothing.
const SegmentsBlank uint8 = 0xFF

// Segments returns the pattern for decimal digit d (0..9).
func Segments(d uint8) uint8 {
	if d > 9 {
		return SegmentsBlank
	}
	return digitSegments[d]
}

// Multiplexer renders two 2-digit fields one position at a time.
type Multiplexer struct {
	out     Output
	cursor  uint8
	zeroPad bool
}

// NewMultiplexer creates a multiplexer writing to out. With zeroPad set,
// values below 10 show a literal leading zero instead of a blank tens digit.
func NewMultiplexer(out Output, zeroPad bool) *Multiplexer {
	return &Multiplexer{out: out, zeroPad: zeroPad}
}

// Cursor returns the position the next Refresh will light.
func (m *Multiplexer) Cursor() uint8 {
	return m.cursor
}

// Refresh lights the position under the cursor, gated by mask, and advances
// the cursor. A cleared mask bit leaves the position dark for this cycle.
// The cursor advances even when the write fails.
func (m *Multiplexer) Refresh(left, right, mask uint8) error {
	pos := m.cursor
	m.cursor = (m.cursor + 1) % Positions

	segments := PositionSegments(pos, left, right, m.zeroPad)
	return m.out.Write(segments, (1<<pos)&mask)
}

// Blank turns every position off.
func (m *Multiplexer) Blank() error {
	return m.out.Write(SegmentsBlank, 0)
}

// PositionSegments returns the segment pattern for position pos.
func PositionSegments(pos, left, right uint8, zeroPad bool) uint8 {
	d, ok := positionDigit(pos, left, right, zeroPad)
	if !ok {
		return SegmentsBlank
	}
	return Segments(d)
}

// positionDigit returns the decimal digit shown at pos; ok is false for a
// blanked tens digit.
func positionDigit(pos, left, right uint8, zeroPad bool) (uint8, bool) {
	v := left
	if pos >= 2 {
		v = right
	}
	if pos%2 == 1 {
		return v % 10, true
	}
	if v < 10 && !zeroPad {
		return 0, false
	}
	return (v / 10) % 10, true
}

// Text renders what the display shows as "LL:RR", with dark positions
// (blank tens or masked off) as spaces.
func Text(left, right, mask uint8, zeroPad bool) string {
	buf := make([]byte, 0, Positions+1)
	for pos := uint8(0); pos < Positions; pos++ {
		if pos == 2 {
			buf = append(buf, ':')
		}
		d, ok := positionDigit(pos, left, right, zeroPad)
		if !ok || mask&(1<<pos) == 0 {
			buf = append(buf, ' ')
			continue
		}
		buf = append(buf, '0'+d)
	}
	return string(buf)
}

// Default output pins (BCM numbering).
var (
	DefaultSegmentPins = []int{17, 27, 22, 23, 24, 25, 12, 16} // a..g, dp
	DefaultDigitPins   = []int{18, 19, 20, 21}
)
