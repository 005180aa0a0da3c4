package status

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Time          string       `json:"time"`
	Mode          string       `json:"mode"`
	Display       string       `json:"display"`
	Mask          string       `json:"mask"`
	Buttons       ButtonsJSON  `json:"buttons"`
	Running       bool         `json:"running"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// ButtonsJSON reports the debounced state of each wired button.
type ButtonsJSON struct {
	Mode      string `json:"mode"`
	Increment string `json:"increment"`
	Decrement string `json:"decrement"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	ModeChanges int `json:"mode_changes"`
	Increments  int `json:"increments"`
	Decrements  int `json:"decrements"`
	Repeats     int `json:"repeats"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Variant       string   `json:"variant"`
	Views         []string `json:"views,omitempty"`
	TickMs        int64    `json:"tick_ms"`
	DisplayTicks  uint16   `json:"display_ticks"`
	DebounceTicks uint16   `json:"debounce_ticks"`
	BlinkTicks    uint16   `json:"blink_ticks"`
	RepeatTicks   uint16   `json:"repeat_ticks"`
	PressSamples  uint8    `json:"press_samples"`
	HoldSamples   uint8    `json:"hold_samples"`
	HeartbeatMs   int64    `json:"heartbeat_ms"`
	Broker        string   `json:"broker"`
	HTTPAddr      string   `json:"http_addr"`
}

func stateOrUnknown(s string) string {
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

func buildInner(snap Snapshot) StatusInner {
	c := snap.Clock
	mode := "UNKNOWN"
	if snap.Running {
		mode = c.Mode.String()
	}

	return StatusInner{
		Time:    c.Time.String(),
		Mode:    mode,
		Display: c.Display,
		Mask:    fmt.Sprintf("0x%02X", c.Mask),
		Buttons: ButtonsJSON{
			Mode:      stateOrUnknown(string(c.Buttons[0])),
			Increment: stateOrUnknown(string(c.Buttons[1])),
			Decrement: stateOrUnknown(string(c.Buttons[2])),
		},
		Running:       snap.Running,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			ModeChanges: c.Counts.ModeChanges,
			Increments:  c.Counts.Increments,
			Decrements:  c.Counts.Decrements,
			Repeats:     c.Counts.Repeats,
		},
		Config: ConfigJSON{
			Variant:       snap.Config.Variant,
			Views:         snap.Config.Views,
			TickMs:        snap.Config.TickMs,
			DisplayTicks:  snap.Config.DisplayTicks,
			DebounceTicks: snap.Config.DebounceTicks,
			BlinkTicks:    snap.Config.BlinkTicks,
			RepeatTicks:   snap.Config.RepeatTicks,
			PressSamples:  snap.Config.PressSamples,
			HoldSamples:   snap.Config.HoldSamples,
			HeartbeatMs:   snap.Config.HeartbeatMs,
			Broker:        snap.Config.Broker,
			HTTPAddr:      snap.Config.HTTPAddr,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
