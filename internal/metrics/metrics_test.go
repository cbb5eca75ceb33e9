package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCycle(t *testing.T) {
	m := New()

	m.ObserveCycle(50000, 0.5)
	m.ObserveCycle(60000, 0.6)

	if got := testutil.ToFloat64(m.Cycles); got != 2 {
		t.Errorf("cycles: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RawCount); got != 60000 {
		t.Errorf("raw count gauge: got %v, want 60000", got)
	}
	if got := testutil.ToFloat64(m.Volume); got < 0.59 || got > 0.61 {
		t.Errorf("volume gauge: got %v, want 0.6", got)
	}
}

func TestErrorCounters(t *testing.T) {
	m := New()

	m.CycleErrors.Inc()
	m.PublishErrors.Inc()
	m.PublishErrors.Inc()

	if got := testutil.ToFloat64(m.CycleErrors); got != 1 {
		t.Errorf("cycle errors: got %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.PublishErrors); got != 2 {
		t.Errorf("publish errors: got %v, want 2", got)
	}
}

func TestIndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	a := New()
	b := New()

	a.Cycles.Inc()
	if got := testutil.ToFloat64(b.Cycles); got != 0 {
		t.Errorf("registries not independent: got %v, want 0", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	m := New()
	m.ObserveCycle(12345, 0.25)
	m.Published.Inc()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{
		"fader_sampling_cycles_total",
		"fader_mqtt_published_total",
		"fader_volume",
		"fader_raw_count",
		"fader_charge_count",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}
