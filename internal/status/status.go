// Package status provides a thread-safe status tracker for the segment-clock daemon.
// It is written by the polling loop and read by HTTP handlers and the heartbeat.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/segment-clock/internal/logic"
)

// NetworkInfo contains network state as reported by the host helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	Variant       string
	Views         []string
	TickMs        int64
	DisplayTicks  uint16
	DebounceTicks uint16
	BlinkTicks    uint16
	RepeatTicks   uint16
	PressSamples  uint8
	HoldSamples   uint8
	HeartbeatMs   int64
	Broker        string
	HTTPAddr      string
}

// ClockState is the state machine view published by the polling loop.
type ClockState struct {
	Time    logic.TimeValue
	Mode    logic.Mode
	Mask    uint8
	Display string // rendered digits, e.g. "12:34"
	Buttons [3]logic.ButtonState
	Counts  logic.EventCounts
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Clock         ClockState
	Running       bool // set once the first clock update arrives
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update replaces the clock state. Called from runLoop after each step.
func (t *Tracker) Update(cs ClockState) {
	t.mu.Lock()
	t.snap.Clock = cs
	t.snap.Running = true
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
