package mqtt

import (
	"time"

	"github.com/sweeney/segment-clock/internal/logic"
)

// FakePublisher is an in-memory Publisher. Every accepted message is kept
// both as the value handed in and as the payload bytes a broker would see.
type FakePublisher struct {
	// Clock events, indexed together.
	Events   []logic.Event
	Times    []time.Time
	Payloads [][]byte

	// Lifecycle events on TopicSystem, indexed together.
	SystemEvents   []SystemEvent
	SystemPayloads [][]byte

	// Injected failures. A failed call records nothing.
	PublishError       error
	PublishSystemError error

	Connected bool
	Closed    bool
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

func (f *FakePublisher) Publish(at time.Time, event logic.Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(at, event)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, event)
	f.Times = append(f.Times, at)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

func (f *FakePublisher) IsConnected() bool { return f.Connected }

func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// SystemEventNames lists the recorded lifecycle event names, oldest first.
func (f *FakePublisher) SystemEventNames() []string {
	names := make([]string, 0, len(f.SystemEvents))
	for _, e := range f.SystemEvents {
		names = append(names, e.Event)
	}
	return names
}

// Reset returns the fake to its zero state, injected errors included.
func (f *FakePublisher) Reset() {
	*f = FakePublisher{}
}
