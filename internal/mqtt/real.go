package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/segment-clock/internal/logic"
)

const publishTimeout = 5 * time.Second

// RealPublisher publishes to an actual MQTT broker.
//
// Publishing never blocks the caller: while the broker is unreachable,
// messages go to a ring buffer that is replayed after the next connect, and
// delivery of live messages is confirmed in the background.
type RealPublisher struct {
	client paho.Client

	mu        sync.Mutex
	buf       *ringBuffer
	connected bool // at least one successful connect so far
}

// NewRealPublisher creates a publisher for the given broker and starts
// connecting in the background. bufferSize is the number of messages kept
// while disconnected.
func NewRealPublisher(broker, clientID string, bufferSize int) *RealPublisher {
	p := &RealPublisher{buf: newRingBuffer(bufferSize)}

	will, _ := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "OFFLINE",
		Reason:    "MQTT_DISCONNECT",
	})

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

// onConnect replays buffered messages and announces a reconnect.
func (p *RealPublisher) onConnect(c paho.Client) {
	p.mu.Lock()
	pending := p.buf.drainAll()
	reconnect := p.connected
	p.connected = true
	p.mu.Unlock()

	log.Printf("mqtt: connected, replaying %d buffered messages", len(pending))
	for _, m := range pending {
		token := c.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(publishTimeout) {
			log.Printf("mqtt: replay to %s timed out", m.topic)
			continue
		}
		if err := token.Error(); err != nil {
			log.Printf("mqtt: replay to %s: %v", m.topic, err)
		}
	}

	if reconnect {
		payload, _ := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "RECONNECTED"})
		c.Publish(TopicSystem, 1, false, payload)
	}
}

// Publish sends a clock event to the MQTT broker.
func (p *RealPublisher) Publish(at time.Time, event logic.Event) error {
	payload, err := FormatPayload(at, event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.send(bufferedMsg{topic: Topic, payload: payload})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events
	return p.send(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

func (p *RealPublisher) send(m bufferedMsg) error {
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		p.buf.push(m)
		p.mu.Unlock()
		return nil
	}

	token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	go func() {
		if !token.WaitTimeout(publishTimeout) {
			log.Printf("mqtt: publish to %s timed out", m.topic)
			return
		}
		if err := token.Error(); err != nil {
			log.Printf("mqtt: publish to %s: %v", m.topic, err)
		}
	}()
	return nil
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker, giving in-flight messages up to one
// second to complete.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
