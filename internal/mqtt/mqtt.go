// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"errors"
	"time"
)

// DefaultTopic is the MQTT topic for volume readings.
const DefaultTopic = "audio/fader/volume"

// DefaultTopicSystem is the MQTT topic for system lifecycle events.
const DefaultTopicSystem = "audio/fader/system"

// ErrQueued reports that the broker was unreachable and the message was
// queued for replay on reconnect. It is not a delivery: callers keeping
// publish counts must not treat it as one, and an overflowing queue may
// still drop the message.
var ErrQueued = errors.New("mqtt: disconnected, message queued")

// Reading is one conditioned volume reading bound for the broker.
type Reading struct {
	Timestamp time.Time
	Channel   string
	Value     float32
	Raw       uint32
	DB        float32
}

// Publisher publishes readings to MQTT.
type Publisher interface {
	// Publish sends a volume reading to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(reading Reading) error

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
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Fader FaderPayload `json:"fader"`
}

// FaderPayload contains the volume reading details.
type FaderPayload struct {
	Timestamp string  `json:"timestamp"`
	Channel   string  `json:"channel"`
	Value     float32 `json:"value"`
	Raw       uint32  `json:"raw"`
	DB        float32 `json:"db"`
}

// FormatPayload creates the JSON payload for a volume reading.
func FormatPayload(reading Reading) ([]byte, error) {
	payload := Payload{
		Fader: FaderPayload{
			Timestamp: reading.Timestamp.UTC().Format(time.RFC3339),
			Channel:   reading.Channel,
			Value:     reading.Value,
			Raw:       reading.Raw,
			DB:        reading.DB,
		},
	}
	return json.Marshal(payload)
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
