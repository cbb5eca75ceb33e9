// Package status provides a thread-safe status tracker for the fader-sensor
// daemon. The sampling loop writes it; HTTP handlers and system events read
// it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/fader-sensor/internal/volume"
)

// Config contains daemon configuration for display.
type Config struct {
	IntervalMs  int64
	SettleMs    int64
	MaxCount    uint32
	RangeMin    uint32
	RangeMax    uint32
	Curve       string
	DBMin       float32
	DBMax       float32
	RateUp      float32
	RateDown    float32
	RateLimit   bool
	Broker      string
	Topic       string
	Channel     string
	HTTPAddr    string
	HeartbeatMs int64
	Push        bool
}

// Counts accumulates totals over the daemon's lifetime.
type Counts struct {
	Cycles    int
	Errors    int
	Published int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Raw           uint32
	Linear        float32
	Volume        float32
	DB            float32
	LastSample    time.Time
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Ready reports whether at least one sample has completed, i.e. the exposed
// value is a real reading and not the zero default.
func (s Snapshot) Ready() bool {
	return !s.LastSample.IsZero()
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

// SetReading records a completed conditioning pass. Called from runLoop on
// every successful cycle.
func (t *Tracker) SetReading(res volume.Result, at time.Time) {
	t.mu.Lock()
	t.snap.Raw = res.Raw
	t.snap.Linear = res.Linear
	t.snap.Volume = res.Value
	t.snap.DB = res.DB
	t.snap.LastSample = at
	t.snap.Counts.Cycles++
	t.mu.Unlock()
}

// SetError counts a failed sampling cycle. The last good reading stays.
func (t *Tracker) SetError() {
	t.mu.Lock()
	t.snap.Counts.Errors++
	t.mu.Unlock()
}

// SetPublished counts a successful MQTT publish.
func (t *Tracker) SetPublished() {
	t.mu.Lock()
	t.snap.Counts.Published++
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
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
