package sampler

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/fader-sensor/internal/gpio"
)

func newTestSampler(f *gpio.FakePair) *ChargeTime {
	s := New(f, DefaultSettle, DefaultMaxCount)
	s.sleep = func(time.Duration) {} // don't actually wait in tests
	return s
}

func TestReadReturnsScriptedCount(t *testing.T) {
	f := gpio.NewFakePair([]uint32{42, 0, 123456})
	s := newTestSampler(f)

	for i, want := range []uint32{42, 0, 123456} {
		got, err := s.Read()
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if got != want {
			t.Errorf("read %d: got %d, want %d", i, got, want)
		}
	}
}

func TestReadCeiling(t *testing.T) {
	// Pin B never goes high within the ceiling.
	f := gpio.NewFakePair([]uint32{1_000_000})
	s := New(f, DefaultSettle, 500)
	s.sleep = func(time.Duration) {}

	got, err := s.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 500 {
		t.Errorf("expected ceiling count 500, got %d", got)
	}
}

func TestReadSequencesPins(t *testing.T) {
	f := gpio.NewFakePair([]uint32{1})
	s := newTestSampler(f)

	if _, err := s.Read(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Discharge must complete before the charge phase starts.
	want := []string{"input A", "output B=0", "input B", "output A=1"}
	if len(f.Ops) != len(want) {
		t.Fatalf("expected %d ops, got %d: %v", len(want), len(f.Ops), f.Ops)
	}
	for i, op := range want {
		if f.Ops[i] != op {
			t.Errorf("op %d: got %q, want %q", i, f.Ops[i], op)
		}
	}
}

func TestReadSleepsForSettle(t *testing.T) {
	f := gpio.NewFakePair([]uint32{1})
	s := New(f, 7*time.Millisecond, DefaultMaxCount)

	var slept []time.Duration
	s.sleep = func(d time.Duration) { slept = append(slept, d) }

	if _, err := s.Read(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slept) != 1 || slept[0] != 7*time.Millisecond {
		t.Errorf("expected one 7ms settle sleep, got %v", slept)
	}
}

func TestReadPinErrors(t *testing.T) {
	f := gpio.NewFakePair([]uint32{1})
	s := newTestSampler(f)

	f.SetInputErr = errors.New("input fault")
	if _, err := s.Read(); err == nil {
		t.Error("expected SetInput error to propagate")
	}
	f.SetInputErr = nil

	f.SetOutputErr = errors.New("output fault")
	if _, err := s.Read(); err == nil {
		t.Error("expected SetOutput error to propagate")
	}
	f.SetOutputErr = nil

	f.ReadErr = errors.New("read fault")
	if _, err := s.Read(); err == nil {
		t.Error("expected Read error to propagate")
	}
}

func TestNewDefaults(t *testing.T) {
	s := New(gpio.NewFakePair(nil), 0, 0)
	if s.settle != DefaultSettle {
		t.Errorf("expected default settle %v, got %v", DefaultSettle, s.settle)
	}
	if s.maxCount != DefaultMaxCount {
		t.Errorf("expected default max count %d, got %d", DefaultMaxCount, s.maxCount)
	}
}
