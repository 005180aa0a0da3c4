package gpio

import "errors"

// FakeReader is a test double that returns scripted raw readings.
type FakeReader struct {
	// Samples contains scripted raw bitfields to return.
	// Each call to Read() consumes the next sample.
	Samples []uint8

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []uint8) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (uint8, error) {
	if f.ReadError != nil {
		return Idle, f.ReadError
	}

	if len(f.Samples) == 0 {
		return Idle, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// Pressed returns the raw reading with the given button lines asserted.
func Pressed(lines ...int) uint8 {
	raw := Idle
	for _, l := range lines {
		raw &^= 1 << l
	}
	return raw
}

// Repeat returns n copies of raw.
func Repeat(raw uint8, n int) []uint8 {
	out := make([]uint8, n)
	for i := range out {
		out[i] = raw
	}
	return out
}
