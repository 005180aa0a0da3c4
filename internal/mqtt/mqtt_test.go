package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/segment-clock/internal/logic"
)

var (
	displayHourMin = logic.Mode{View: logic.ViewHourMin}
	editHours      = logic.Mode{View: logic.ViewHourMin, Edit: logic.EditLeft}
)

func TestFormatPayloadModeChanged(t *testing.T) {
	event := logic.Event{
		Type: logic.EventModeChanged,
		Mode: editHours,
		From: displayHourMin,
		Time: logic.TimeValue{Hours: 7, Minutes: 30, Seconds: 5},
	}

	payload, err := FormatPayload(time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC), event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"clock":{"timestamp":"2026-02-02T22:18:12Z","event":"MODE_CHANGED","mode":"EDIT_HOURS","from":"DISPLAY_HOUR_MIN","time":"07:30:05"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatPayloadTimeAdjusted(t *testing.T) {
	tests := []struct {
		name       string
		event      logic.Event
		wantField  string
		wantDelta  int
		wantRepeat bool
	}{
		{
			"increment",
			logic.Event{Type: logic.EventTimeAdjusted, Mode: editHours, Field: logic.FieldHours, Delta: 1},
			"HOURS", 1, false,
		},
		{
			"repeat decrement",
			logic.Event{Type: logic.EventTimeAdjusted, Mode: editHours, Field: logic.FieldHours, Delta: -1, Repeat: true},
			"HOURS", -1, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := FormatPayload(time.Now(), tt.event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed Payload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			if parsed.Clock.Event != "TIME_ADJUSTED" {
				t.Errorf("event: got %s, want TIME_ADJUSTED", parsed.Clock.Event)
			}
			if parsed.Clock.Mode != "EDIT_HOURS" {
				t.Errorf("mode: got %s, want EDIT_HOURS", parsed.Clock.Mode)
			}
			if parsed.Clock.Field != tt.wantField {
				t.Errorf("field: got %s, want %s", parsed.Clock.Field, tt.wantField)
			}
			if parsed.Clock.Delta != tt.wantDelta {
				t.Errorf("delta: got %d, want %d", parsed.Clock.Delta, tt.wantDelta)
			}
			if parsed.Clock.Repeat != tt.wantRepeat {
				t.Errorf("repeat: got %v, want %v", parsed.Clock.Repeat, tt.wantRepeat)
			}
			if parsed.Clock.From != "" {
				t.Errorf("from should be omitted, got %q", parsed.Clock.From)
			}
		})
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2026, 2, 3, 0, 18, 12, 0, loc)

	payload, err := FormatPayload(at, logic.Event{Type: logic.EventModeChanged, Mode: editHours, From: displayHourMin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Clock.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("expected UTC timestamp, got %s", parsed.Clock.Timestamp)
	}
}

func TestTopics(t *testing.T) {
	if Topic != "clock/segment/events" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "clock/segment/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC),
		Event:     "OFFLINE",
		Reason:    "MQTT_DISCONNECT",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-10T08:30:00Z","event":"OFFLINE","reason":"MQTT_DISCONNECT"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadOmitsReason(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 14, 30, 0, 0, time.UTC),
		Event:     "RECONNECTED",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-10T14:30:00Z","event":"RECONNECTED"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "STARTUP", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload passed through, got %s", payload)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	events := []logic.Event{
		{Type: logic.EventModeChanged, Mode: editHours, From: displayHourMin},
		{Type: logic.EventTimeAdjusted, Mode: editHours, Field: logic.FieldHours, Delta: 1},
	}
	for _, e := range events {
		if err := f.Publish(at, e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(f.Events) != 2 || len(f.Payloads) != 2 || len(f.Times) != 2 {
		t.Fatalf("expected 2 recorded events, got %d/%d/%d", len(f.Events), len(f.Payloads), len(f.Times))
	}
	if f.Events[0].Type != logic.EventModeChanged || f.Events[1].Type != logic.EventTimeAdjusted {
		t.Errorf("events recorded out of order: %+v", f.Events)
	}
	if !f.Times[1].Equal(at) {
		t.Errorf("unexpected time: %v", f.Times[1])
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker unavailable")
	f.PublishSystemError = errors.New("broker unavailable")

	if err := f.Publish(time.Now(), logic.Event{}); err == nil {
		t.Error("expected publish error")
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err == nil {
		t.Error("expected publish system error")
	}
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 {
		t.Error("failed publishes should not be recorded")
	}
}

func TestFakePublisherSystemEventsAndReset(t *testing.T) {
	f := NewFakePublisher()
	f.Connected = true

	f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "STARTUP", Retained: true})
	f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "HEARTBEAT"})

	names := f.SystemEventNames()
	if len(names) != 2 || names[0] != "STARTUP" || names[1] != "HEARTBEAT" {
		t.Errorf("unexpected system events: %v", names)
	}
	if !f.SystemEvents[0].Retained || f.SystemEvents[1].Retained {
		t.Error("retained flag not recorded")
	}
	if !f.IsConnected() {
		t.Error("expected connected")
	}

	f.Close()
	if !f.Closed {
		t.Error("expected closed")
	}

	f.Reset()
	if len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 || f.Closed || f.Connected {
		t.Error("reset did not clear state")
	}
}
