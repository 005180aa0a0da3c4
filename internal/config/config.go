// Package config loads the daemon configuration from defaults and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/sweeney/segment-clock/internal/display"
	"github.com/sweeney/segment-clock/internal/gpio"
	"github.com/sweeney/segment-clock/internal/logic"
)

// Variants.
const (
	VariantHMS = "hms" // hours, minutes and seconds; HOUR_MIN and MIN_SEC views
	VariantMS  = "ms"  // minutes and seconds only; MIN_SEC view
)

// Config is the full daemon configuration.
type Config struct {
	Variant     string         `yaml:"variant"`
	Views       []string       `yaml:"views,omitempty"`
	InitialTime string         `yaml:"initial_time,omitempty"`
	Tick        TickConfig     `yaml:"tick"`
	Cadence     CadenceConfig  `yaml:"cadence"`
	Debounce    DebounceConfig `yaml:"debounce"`
	GPIO        GPIOConfig     `yaml:"gpio"`
	Display     DisplayConfig  `yaml:"display"`
	MQTT        MQTTConfig     `yaml:"mqtt"`
	Heartbeat   time.Duration  `yaml:"heartbeat"`
	HTTP        string         `yaml:"http"`
}

// TickConfig sets the periods of the two tick sources.
type TickConfig struct {
	Millisecond time.Duration `yaml:"millisecond"`
	Second      time.Duration `yaml:"second"`
}

// CadenceConfig sets derived periods, in millisecond ticks.
type CadenceConfig struct {
	DisplayTicks  uint16 `yaml:"display_ticks"`
	DebounceTicks uint16 `yaml:"debounce_ticks"`
	BlinkTicks    uint16 `yaml:"blink_ticks"`
	RepeatTicks   uint16 `yaml:"repeat_ticks"`
}

// DebounceConfig sets the debouncer thresholds, in debounce polls.
type DebounceConfig struct {
	PressSamples uint8 `yaml:"press_samples"`
	HoldSamples  uint8 `yaml:"hold_samples"`
}

// GPIOConfig names the chip and pins.
type GPIOConfig struct {
	Chip     string `yaml:"chip"`
	Buttons  []int  `yaml:"buttons"`  // Mode, Increment, Decrement
	Segments []int  `yaml:"segments"` // a..g, dp
	Digits   []int  `yaml:"digits"`
}

// DisplayConfig controls rendering.
type DisplayConfig struct {
	ZeroPad bool `yaml:"zero_pad"`
}

// MQTTConfig configures the publisher.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id,omitempty"`
	Buffer   int    `yaml:"buffer"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Variant: VariantHMS,
		Tick: TickConfig{
			Millisecond: time.Millisecond,
			Second:      time.Second,
		},
		Cadence: CadenceConfig{
			DisplayTicks:  1,
			DebounceTicks: 10,
			BlinkTicks:    logic.DefaultBlinkTicks,
			RepeatTicks:   logic.DefaultRepeatTicks,
		},
		Debounce: DebounceConfig{
			PressSamples: logic.DefaultPressSamples,
			HoldSamples:  logic.DefaultHoldSamples,
		},
		GPIO: GPIOConfig{
			Chip:     gpio.DefaultChip,
			Buttons:  []int{gpio.DefaultPinMode, gpio.DefaultPinIncrement, gpio.DefaultPinDecrement},
			Segments: append([]int(nil), display.DefaultSegmentPins...),
			Digits:   append([]int(nil), display.DefaultDigitPins...),
		},
		MQTT: MQTTConfig{
			Broker: "tcp://192.168.1.200:1883",
			Buffer: 100,
		},
		Heartbeat: 15 * time.Minute,
		HTTP:      ":80",
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and cross-field consistency.
func (c Config) Validate() error {
	var errs []error

	if _, err := c.Layout(); err != nil {
		errs = append(errs, err)
	}
	if c.InitialTime != "" {
		if _, err := logic.ParseTimeValue(c.InitialTime); err != nil {
			errs = append(errs, fmt.Errorf("config: initial_time: %w", err))
		}
	}
	if c.Tick.Millisecond <= 0 || c.Tick.Second <= 0 {
		errs = append(errs, errors.New("config: tick periods must be > 0"))
	}
	if c.Cadence.DisplayTicks == 0 || c.Cadence.DebounceTicks == 0 || c.Cadence.BlinkTicks == 0 || c.Cadence.RepeatTicks == 0 {
		errs = append(errs, errors.New("config: cadence ticks must be > 0"))
	}
	if c.Debounce.PressSamples == 0 {
		errs = append(errs, errors.New("config: debounce.press_samples must be > 0"))
	}
	// The sample counters saturate at 255, so a threshold of 255 would fire
	// on every poll once reached.
	if c.Debounce.HoldSamples <= c.Debounce.PressSamples || c.Debounce.HoldSamples == 255 {
		errs = append(errs, fmt.Errorf("config: debounce.hold_samples must be in (%d, 255)", c.Debounce.PressSamples))
	}
	if len(c.GPIO.Buttons) != 3 {
		errs = append(errs, fmt.Errorf("config: gpio.buttons wants 3 pins (mode, increment, decrement), got %d", len(c.GPIO.Buttons)))
	}
	if len(c.GPIO.Segments) != 8 {
		errs = append(errs, fmt.Errorf("config: gpio.segments wants 8 pins, got %d", len(c.GPIO.Segments)))
	}
	if len(c.GPIO.Digits) != display.Positions {
		errs = append(errs, fmt.Errorf("config: gpio.digits wants %d pins, got %d", display.Positions, len(c.GPIO.Digits)))
	}
	if c.MQTT.Buffer < 0 {
		errs = append(errs, errors.New("config: mqtt.buffer must be >= 0"))
	}

	return errors.Join(errs...)
}

// Layout returns the clock layout selected by Variant and Views.
func (c Config) Layout() (logic.Layout, error) {
	var layout logic.Layout
	switch c.Variant {
	case VariantHMS:
		layout = logic.LayoutHMS()
	case VariantMS:
		layout = logic.LayoutMS()
	default:
		return logic.Layout{}, fmt.Errorf("config: unknown variant %q", c.Variant)
	}

	if len(c.Views) > 0 {
		layout.Views = nil
		for _, name := range c.Views {
			v, err := logic.ParseView(name)
			if err != nil {
				return logic.Layout{}, fmt.Errorf("config: views: %w", err)
			}
			layout.Views = append(layout.Views, v)
		}
	}

	if err := layout.Validate(); err != nil {
		return logic.Layout{}, fmt.Errorf("config: %w", err)
	}
	return layout, nil
}

// ClockConfig builds the state machine configuration.
func (c Config) ClockConfig() (logic.ClockConfig, error) {
	layout, err := c.Layout()
	if err != nil {
		return logic.ClockConfig{}, err
	}
	var initial logic.TimeValue
	if c.InitialTime != "" {
		if initial, err = logic.ParseTimeValue(c.InitialTime); err != nil {
			return logic.ClockConfig{}, fmt.Errorf("config: initial_time: %w", err)
		}
	}
	return logic.ClockConfig{
		Layout:      layout,
		BlinkTicks:  c.Cadence.BlinkTicks,
		RepeatTicks: c.Cadence.RepeatTicks,
		Initial:     initial,
	}, nil
}

// ResolveClientID returns the configured MQTT client ID, or a random one
// when none is configured.
func (c Config) ResolveClientID() string {
	if c.MQTT.ClientID != "" {
		return c.MQTT.ClientID
	}
	return "segment-clock-" + uuid.NewString()[:8]
}
