// Command segment-clock drives a four-digit seven-segment clock from GPIO
// buttons and publishes mode changes and time adjustments to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/segment-clock/internal/config"
	"github.com/sweeney/segment-clock/internal/display"
	"github.com/sweeney/segment-clock/internal/gpio"
	"github.com/sweeney/segment-clock/internal/logic"
	"github.com/sweeney/segment-clock/internal/mqtt"
	"github.com/sweeney/segment-clock/internal/status"
	"github.com/sweeney/segment-clock/internal/tick"
	"github.com/sweeney/segment-clock/internal/web"
)

func main() {
	cfg, printState, err := parseArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("fatal: %v", err)
	}

	if err := run(cfg, printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// parseArgs builds the configuration from defaults, the optional -config
// file and any explicitly set flags, in that order of precedence.
func parseArgs(args []string) (config.Config, bool, error) {
	def := config.Default()

	fs := flag.NewFlagSet("segment-clock", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	fs.String("variant", def.Variant, `Clock variant: "hms" (hours, minutes, seconds) or "ms" (minutes, seconds)`)
	fs.String("broker", def.MQTT.Broker, "MQTT broker address")
	fs.Duration("heartbeat", def.Heartbeat, "Heartbeat interval (0 to disable)")
	fs.String("http", def.HTTP, "HTTP status address (empty to disable)")
	fs.String("chip", def.GPIO.Chip, "GPIO chip name")
	fs.String("initial-time", "", "Time to start from, HH:MM:SS")
	fs.Bool("zero-pad", def.Display.ZeroPad, "Show a leading zero instead of a blank tens digit")
	printState := fs.Bool("print-state", false, "Print raw button levels and exit")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, false, err
	}

	cfg := def
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return config.Config{}, false, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		v := f.Value.(flag.Getter).Get()
		switch f.Name {
		case "variant":
			cfg.Variant = v.(string)
		case "broker":
			cfg.MQTT.Broker = v.(string)
		case "heartbeat":
			cfg.Heartbeat = v.(time.Duration)
		case "http":
			cfg.HTTP = v.(string)
		case "chip":
			cfg.GPIO.Chip = v.(string)
		case "initial-time":
			cfg.InitialTime = v.(string)
		case "zero-pad":
			cfg.Display.ZeroPad = v.(bool)
		}
	})

	if err := cfg.Validate(); err != nil {
		return config.Config{}, false, err
	}
	return cfg, *printState, nil
}

func run(cfg config.Config, printState bool) error {
	// Initialize button inputs
	reader, err := gpio.NewRealReader(cfg.GPIO.Chip, cfg.GPIO.Buttons)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	if printState {
		raw, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Println(formatButtonLevels(raw))
		return nil
	}

	// Initialize display outputs
	output, err := display.NewRealOutput(cfg.GPIO.Chip, cfg.GPIO.Segments, cfg.GPIO.Digits)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer output.Close()

	// Initialize MQTT
	publisher := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.ResolveClientID(), cfg.MQTT.Buffer)
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), statusConfig(cfg))
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	l, err := newLoop(cfg, reader, output, publisher, publisher, tracker, time.Now)
	if err != nil {
		return err
	}
	l.updateTracker()

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.HTTP != "" {
		srv := web.New(cfg.HTTP, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP)
	}

	log.Printf("started: variant=%s views=%v time=%s debounce=%dx%v press=%d hold=%d broker=%s heartbeat=%v",
		cfg.Variant, l.clock.Layout().Views, l.clock.Time(), cfg.Cadence.DebounceTicks, cfg.Tick.Millisecond,
		cfg.Debounce.PressSamples, cfg.Debounce.HoldSamples, cfg.MQTT.Broker, cfg.Heartbeat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := tick.NewSource(cfg.Tick.Millisecond, cfg.Tick.Second)
	src.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(l, src, sigCh)
}

// loop holds everything the polling loop owns. None of it is shared with
// other goroutines except through the tracker.
type loop struct {
	clock     *logic.Clock
	debouncer *logic.Debouncer
	mux       *display.Multiplexer
	heartbeat *logic.Heartbeat

	displayCadence  logic.Cadence
	debounceCadence logic.Cadence

	reader     gpio.Reader
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker

	heartbeatInterval time.Duration
	zeroPad           bool
	trackedMask       uint8 // mask at the last tracker update
	now               func() time.Time
}

func newLoop(cfg config.Config, reader gpio.Reader, output display.Output, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time) (*loop, error) {
	clockCfg, err := cfg.ClockConfig()
	if err != nil {
		return nil, err
	}
	clock, err := logic.NewClock(clockCfg)
	if err != nil {
		return nil, fmt.Errorf("init clock: %w", err)
	}

	return &loop{
		clock:             clock,
		debouncer:         logic.NewDebouncer(cfg.Debounce.PressSamples, cfg.Debounce.HoldSamples),
		mux:               display.NewMultiplexer(output, cfg.Display.ZeroPad),
		heartbeat:         logic.NewHeartbeat(now()),
		displayCadence:    logic.NewCadence(cfg.Cadence.DisplayTicks),
		debounceCadence:   logic.NewCadence(cfg.Cadence.DebounceTicks),
		reader:            reader,
		publisher:         publisher,
		mqttStatus:        mqttStatus,
		tracker:           tracker,
		heartbeatInterval: cfg.Heartbeat,
		zeroPad:           cfg.Display.ZeroPad,
		now:               now,
	}, nil
}

func runLoop(l *loop, src *tick.Source, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			l.shutdown(signalName(s))
			return nil

		case <-src.Wake():
			l.step(src.Second.Take(), src.Milli.Take())
		}
	}
}

// step runs one loop iteration: the second tick first, then the millisecond
// cadences, then the button actions.
func (l *loop) step(second, milli bool) {
	if second {
		l.clock.SecondTick()
	}

	if milli {
		l.clock.MilliTick()

		if l.displayCadence.Tick() {
			left, right := l.clock.Fields()
			if err := l.mux.Refresh(left, right, l.clock.Mask()); err != nil {
				log.Printf("display write error: %v", err)
			}
		}

		if l.debounceCadence.Tick() {
			raw, err := l.reader.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
			} else {
				l.debouncer.Sample(raw)
			}
		}
	}

	events := l.clock.Apply(l.debouncer)
	for _, event := range events {
		logEvent(event)
		if err := l.publisher.Publish(l.now(), event); err != nil {
			log.Printf("publish error: %v", err)
		}
	}

	if second {
		l.checkHeartbeat()
	}
	if second || len(events) > 0 || l.clock.Mask() != l.trackedMask {
		l.updateTracker()
	}
}

func logEvent(e logic.Event) {
	switch e.Type {
	case logic.EventModeChanged:
		log.Printf("event: %s from=%s to=%s time=%s", e.Type, e.From, e.Mode, e.Time)
	case logic.EventTimeAdjusted:
		log.Printf("event: %s field=%s delta=%+d repeat=%v time=%s", e.Type, e.Field, e.Delta, e.Repeat, e.Time)
	}
}

func (l *loop) checkHeartbeat() {
	hbData := l.heartbeat.Check(l.now(), l.heartbeatInterval, l.clock.EventCountsSnapshot())
	if hbData == nil {
		return
	}
	log.Printf("heartbeat: uptime=%v time=%s mode=%s mode_changes=%d increments=%d decrements=%d repeats=%d",
		hbData.Uptime, l.clock.Time(), l.clock.Mode(), hbData.Counts.ModeChanges, hbData.Counts.Increments,
		hbData.Counts.Decrements, hbData.Counts.Repeats)

	hbEvent := mqtt.SystemEvent{
		Timestamp: hbData.Timestamp,
		Event:     "HEARTBEAT",
	}
	if l.tracker != nil {
		// Refresh network info for heartbeat
		if net := readNetworkInfo(); net != nil {
			l.tracker.SetNetwork(net)
		}
		l.updateTracker()
		hbEvent.RawPayload = status.FormatStatusEvent(l.tracker.Snapshot(), "HEARTBEAT", "")
	}
	if err := l.publisher.PublishSystem(hbEvent); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}

// updateTracker publishes the clock state for HTTP and MQTT consumers.
func (l *loop) updateTracker() {
	if l.tracker == nil {
		return
	}
	left, right := l.clock.Fields()
	mask := l.clock.Mask()
	l.trackedMask = mask
	l.tracker.Update(status.ClockState{
		Time:    l.clock.Time(),
		Mode:    l.clock.Mode(),
		Mask:    mask,
		Display: display.Text(left, right, mask, l.zeroPad),
		Buttons: [3]logic.ButtonState{
			l.debouncer.State(logic.ButtonMode),
			l.debouncer.State(logic.ButtonIncrement),
			l.debouncer.State(logic.ButtonDecrement),
		},
		Counts: l.clock.EventCountsSnapshot(),
	})
	if l.mqttStatus != nil {
		l.tracker.SetMQTTConnected(l.mqttStatus.IsConnected())
	}
}

func (l *loop) shutdown(reason string) {
	if err := l.mux.Blank(); err != nil {
		log.Printf("display blank error: %v", err)
	}

	event := mqtt.SystemEvent{
		Timestamp: l.now(),
		Event:     "SHUTDOWN",
		Reason:    reason,
		Retained:  true,
	}
	if l.tracker != nil {
		l.updateTracker()
		event.RawPayload = status.FormatStatusEvent(l.tracker.Snapshot(), "SHUTDOWN", reason)
	}
	if err := l.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

func statusConfig(cfg config.Config) status.Config {
	return status.Config{
		Variant:       cfg.Variant,
		Views:         cfg.Views,
		TickMs:        cfg.Tick.Millisecond.Milliseconds(),
		DisplayTicks:  cfg.Cadence.DisplayTicks,
		DebounceTicks: cfg.Cadence.DebounceTicks,
		BlinkTicks:    cfg.Cadence.BlinkTicks,
		RepeatTicks:   cfg.Cadence.RepeatTicks,
		PressSamples:  cfg.Debounce.PressSamples,
		HoldSamples:   cfg.Debounce.HoldSamples,
		HeartbeatMs:   cfg.Heartbeat.Milliseconds(),
		Broker:        cfg.MQTT.Broker,
		HTTPAddr:      cfg.HTTP,
	}
}

// formatButtonLevels renders raw active-low levels, e.g.
// "MODE: RELEASED, INCREMENT: PRESSED, DECREMENT: RELEASED".
func formatButtonLevels(raw uint8) string {
	level := func(i int) string {
		if raw&(1<<i) == 0 {
			return "PRESSED"
		}
		return "RELEASED"
	}
	return fmt.Sprintf("MODE: %s, INCREMENT: %s, DECREMENT: %s",
		level(logic.ButtonMode), level(logic.ButtonIncrement), level(logic.ButtonDecrement))
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
