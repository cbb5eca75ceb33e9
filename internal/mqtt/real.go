package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// outboxCapacity bounds how many readings are held across a broker outage.
// At one reading per second this covers a few minutes of downtime.
const outboxCapacity = 256

// RealPublisher publishes to an actual MQTT broker. While disconnected it
// queues readings in a bounded outbox and replays them on reconnect, so a
// brief broker restart doesn't punch a hole in the volume history.
type RealPublisher struct {
	client      paho.Client
	topic       string
	topicSystem string

	mu     sync.Mutex
	queued *outbox
}

// NewRealPublisher creates a publisher connected to the given broker. The
// broker holds a retained MQTT_DISCONNECT system event as the last will, so
// subscribers can tell an unclean death from a clean shutdown.
func NewRealPublisher(broker, clientID, topic, topicSystem string) (*RealPublisher, error) {
	if topic == "" {
		topic = DefaultTopic
	}
	if topicSystem == "" {
		topicSystem = DefaultTopicSystem
	}
	if clientID == "" {
		clientID = "fader-sensor"
	}

	p := &RealPublisher{
		topic:       topic,
		topicSystem: topicSystem,
		queued:      newOutbox(outboxCapacity),
	}

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetBinaryWill(topicSystem, will, 1, true).
		SetOnConnectHandler(func(paho.Client) {
			p.replayQueued()
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// Publish sends a volume reading to the MQTT broker. If the connection is
// down the reading is queued for replay and ErrQueued is returned.
func (p *RealPublisher) Publish(reading Reading) error {
	payload, err := FormatPayload(reading)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained: readings are high-rate and a lost
	// one is replaced a second later.
	return p.send(p.topic, payload, 0, false)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	return p.send(p.topicSystem, payload, 1, event.Retained)
}

func (p *RealPublisher) send(topic string, payload []byte, qos byte, retained bool) error {
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.queued.push(queuedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		n := p.queued.len()
		p.mu.Unlock()
		log.Printf("mqtt: disconnected, queued message (%d pending)", n)
		return ErrQueued
	}

	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// replayQueued flushes the outbox after (re)connecting. Runs on paho's
// connect callback goroutine.
func (p *RealPublisher) replayQueued() {
	p.mu.Lock()
	msgs := p.queued.drain()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("mqtt: connected, replaying %d queued messages", len(msgs))
	for _, m := range msgs {
		token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("mqtt: replay timeout, dropping message")
			continue
		}
		if err := token.Error(); err != nil {
			log.Printf("mqtt: replay failed: %v", err)
		}
	}
}

// IsConnected reports whether the client currently has a broker connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
