package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/segment-clock/internal/logic"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	layout, err := cfg.Layout()
	require.NoError(t, err)
	assert.True(t, layout.TrackHours)
	assert.Equal(t, []logic.View{logic.ViewHourMin, logic.ViewMinSec}, layout.Views)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
variant: ms
initial_time: "12:30"
heartbeat: 1m
cadence:
  blink_ticks: 500
debounce:
  hold_samples: 150
mqtt:
  broker: tcp://broker.local:1883
  client_id: kitchen-clock
display:
  zero_pad: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, VariantMS, cfg.Variant)
	assert.Equal(t, time.Minute, cfg.Heartbeat)
	assert.Equal(t, uint16(500), cfg.Cadence.BlinkTicks)
	assert.Equal(t, uint16(10), cfg.Cadence.DebounceTicks, "unset keys keep defaults")
	assert.Equal(t, uint8(150), cfg.Debounce.HoldSamples)
	assert.Equal(t, uint8(3), cfg.Debounce.PressSamples)
	assert.Equal(t, "tcp://broker.local:1883", cfg.MQTT.Broker)
	assert.Equal(t, "kitchen-clock", cfg.ResolveClientID())
	assert.True(t, cfg.Display.ZeroPad)

	cc, err := cfg.ClockConfig()
	require.NoError(t, err)
	assert.Equal(t, logic.TimeValue{Minutes: 12, Seconds: 30}, cc.Initial)
	assert.Equal(t, []logic.View{logic.ViewMinSec}, cc.Layout.Views)
	assert.False(t, cc.Layout.TrackHours)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	_, err := Load(writeFile(t, "variant: [unterminated"))
	require.Error(t, err)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown variant", func(c *Config) { c.Variant = "hm" }, "unknown variant"},
		{"hours view in ms variant", func(c *Config) { c.Variant = VariantMS; c.Views = []string{"hour_min"} }, "requires hours"},
		{"unknown view", func(c *Config) { c.Views = []string{"sec_only"} }, "unknown view"},
		{"bad initial time", func(c *Config) { c.InitialTime = "25:00:00" }, "initial_time"},
		{"zero tick", func(c *Config) { c.Tick.Millisecond = 0 }, "tick periods"},
		{"zero cadence", func(c *Config) { c.Cadence.DebounceTicks = 0 }, "cadence"},
		{"zero press", func(c *Config) { c.Debounce.PressSamples = 0 }, "press_samples"},
		{"hold below press", func(c *Config) { c.Debounce.HoldSamples = 2 }, "hold_samples"},
		{"hold at ceiling", func(c *Config) { c.Debounce.HoldSamples = 255 }, "hold_samples"},
		{"button count", func(c *Config) { c.GPIO.Buttons = []int{5} }, "gpio.buttons"},
		{"segment count", func(c *Config) { c.GPIO.Segments = []int{1, 2} }, "gpio.segments"},
		{"digit count", func(c *Config) { c.GPIO.Digits = nil }, "gpio.digits"},
		{"negative buffer", func(c *Config) { c.MQTT.Buffer = -1 }, "mqtt.buffer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q should mention %q", err, tt.want)
		})
	}
}

func TestViewsReorder(t *testing.T) {
	cfg := Default()
	cfg.Views = []string{"min_sec", "hour_min"}

	layout, err := cfg.Layout()
	require.NoError(t, err)
	assert.Equal(t, []logic.View{logic.ViewMinSec, logic.ViewHourMin}, layout.Views)
}

func TestResolveClientIDGenerated(t *testing.T) {
	cfg := Default()
	a := cfg.ResolveClientID()
	b := cfg.ResolveClientID()

	assert.True(t, strings.HasPrefix(a, "segment-clock-"))
	assert.Len(t, a, len("segment-clock-")+8)
	assert.NotEqual(t, a, b)
}
