package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Volume        float32    `json:"volume"`
	DB            float32    `json:"db"`
	Raw           uint32     `json:"raw"`
	Linear        float32    `json:"linear"`
	Ready         bool       `json:"ready"`
	LastSample    string     `json:"last_sample,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of lifetime counts.
type CountsJSON struct {
	Cycles    int `json:"cycles"`
	Errors    int `json:"errors"`
	Published int `json:"published"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	IntervalMs  int64   `json:"interval_ms"`
	SettleMs    int64   `json:"settle_ms"`
	MaxCount    uint32  `json:"max_count"`
	RangeMin    uint32  `json:"range_min"`
	RangeMax    uint32  `json:"range_max"`
	Curve       string  `json:"curve"`
	DBMin       float32 `json:"db_min"`
	DBMax       float32 `json:"db_max"`
	RateUp      float32 `json:"rate_up"`
	RateDown    float32 `json:"rate_down"`
	RateLimit   bool    `json:"rate_limit"`
	Broker      string  `json:"broker,omitempty"`
	Topic       string  `json:"topic,omitempty"`
	Channel     string  `json:"channel"`
	HTTPAddr    string  `json:"http_addr"`
	HeartbeatMs int64   `json:"heartbeat_ms"`
	Push        bool    `json:"push"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Volume:        snap.Volume,
		DB:            snap.DB,
		Raw:           snap.Raw,
		Linear:        snap.Linear,
		Ready:         snap.Ready(),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Cycles:    snap.Counts.Cycles,
			Errors:    snap.Counts.Errors,
			Published: snap.Counts.Published,
		},
		Config: ConfigJSON{
			IntervalMs:  snap.Config.IntervalMs,
			SettleMs:    snap.Config.SettleMs,
			MaxCount:    snap.Config.MaxCount,
			RangeMin:    snap.Config.RangeMin,
			RangeMax:    snap.Config.RangeMax,
			Curve:       snap.Config.Curve,
			DBMin:       snap.Config.DBMin,
			DBMax:       snap.Config.DBMax,
			RateUp:      snap.Config.RateUp,
			RateDown:    snap.Config.RateDown,
			RateLimit:   snap.Config.RateLimit,
			Broker:      snap.Config.Broker,
			Topic:       snap.Config.Topic,
			Channel:     snap.Config.Channel,
			HTTPAddr:    snap.Config.HTTPAddr,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Push:        snap.Config.Push,
		},
	}
	if !snap.LastSample.IsZero() {
		inner.LastSample = snap.LastSample.UTC().Format(time.RFC3339)
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
