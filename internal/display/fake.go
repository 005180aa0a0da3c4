package display

// Frame is one recorded Write.
type Frame struct {
	Segments uint8
	Digits   uint8
}

// FakeOutput records frames for test assertions.
type FakeOutput struct {
	// Frames contains every frame written, in order.
	Frames []Frame

	// WriteError, if set, will be returned by Write.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeOutput creates a FakeOutput for testing.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

// Write records the frame.
func (f *FakeOutput) Write(segments, digits uint8) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Frames = append(f.Frames, Frame{Segments: segments, Digits: digits})
	return nil
}

// Close marks the output as closed.
func (f *FakeOutput) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recent frame, or a dark frame if none was written.
func (f *FakeOutput) Last() Frame {
	if len(f.Frames) == 0 {
		return Frame{Segments: SegmentsBlank}
	}
	return f.Frames[len(f.Frames)-1]
}

// Reset clears recorded frames.
func (f *FakeOutput) Reset() {
	f.Frames = nil
	f.WriteError = nil
	f.Closed = false
}
