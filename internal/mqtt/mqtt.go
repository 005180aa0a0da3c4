// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/segment-clock/internal/logic"
)

// Topic is the MQTT topic for clock events.
const Topic = "clock/segment/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "clock/segment/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a clock event observed at the given time.
	// Returns error if publishing fails (should not crash the process).
	Publish(at time.Time, event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT", "RECONNECTED"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Clock ClockPayload `json:"clock"`
}

// ClockPayload contains the clock event details.
type ClockPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Mode      string `json:"mode"`
	From      string `json:"from,omitempty"`
	Time      string `json:"time"`
	Field     string `json:"field,omitempty"`
	Delta     int    `json:"delta,omitempty"`
	Repeat    bool   `json:"repeat,omitempty"`
}

// FormatPayload creates the JSON payload for a clock event observed at the
// given time.
func FormatPayload(at time.Time, event logic.Event) ([]byte, error) {
	p := ClockPayload{
		Timestamp: at.UTC().Format(time.RFC3339),
		Event:     string(event.Type),
		Mode:      event.Mode.String(),
		Time:      event.Time.String(),
	}
	switch event.Type {
	case logic.EventModeChanged:
		p.From = event.From.String()
	case logic.EventTimeAdjusted:
		p.Field = event.Field.String()
		p.Delta = event.Delta
		p.Repeat = event.Repeat
	}
	return json.Marshal(Payload{Clock: p})
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT, RECONNECTED) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
