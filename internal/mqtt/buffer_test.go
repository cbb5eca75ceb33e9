package mqtt

import (
	"testing"
)

func TestOutboxEmptyDrain(t *testing.T) {
	o := newOutbox(10)
	got := o.drain()
	if got != nil {
		t.Errorf("expected nil from empty drain, got %d items", len(got))
	}
}

func TestOutboxPushAndDrain(t *testing.T) {
	o := newOutbox(10)
	for i := 0; i < 5; i++ {
		o.push(queuedMsg{topic: "t", payload: []byte{byte(i)}})
	}

	got := o.drain()
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	for i := 0; i < 5; i++ {
		if got[i].payload[0] != byte(i) {
			t.Errorf("item %d: expected payload %d, got %d", i, i, got[i].payload[0])
		}
	}

	// Second drain should be empty
	got2 := o.drain()
	if got2 != nil {
		t.Errorf("expected nil from second drain, got %d items", len(got2))
	}
}

func TestOutboxFillToCapacity(t *testing.T) {
	cap := 10
	o := newOutbox(cap)
	for i := 0; i < cap; i++ {
		o.push(queuedMsg{topic: "t", payload: []byte{byte(i)}})
	}

	got := o.drain()
	if len(got) != cap {
		t.Fatalf("expected %d items, got %d", cap, len(got))
	}
	for i := 0; i < cap; i++ {
		if got[i].payload[0] != byte(i) {
			t.Errorf("item %d: expected payload %d, got %d", i, i, got[i].payload[0])
		}
	}
}

func TestOutboxOverflowDropsOldest(t *testing.T) {
	cap := 5
	o := newOutbox(cap)

	// Push cap+3 items (0..7); the most recent 5 (3..7) should survive.
	for i := 0; i < cap+3; i++ {
		o.push(queuedMsg{topic: "t", payload: []byte{byte(i)}})
	}

	if o.len() != cap {
		t.Fatalf("expected len %d, got %d", cap, o.len())
	}

	got := o.drain()
	if len(got) != cap {
		t.Fatalf("expected %d items, got %d", cap, len(got))
	}
	for i := 0; i < cap; i++ {
		want := byte(i + 3)
		if got[i].payload[0] != want {
			t.Errorf("item %d: expected payload %d, got %d", i, want, got[i].payload[0])
		}
	}
}

func TestOutboxWrapAround(t *testing.T) {
	o := newOutbox(4)

	for i := 0; i < 3; i++ {
		o.push(queuedMsg{payload: []byte{byte(i)}})
	}
	o.drain()

	// Writes now start mid-slice; order must still hold.
	for i := 10; i < 14; i++ {
		o.push(queuedMsg{payload: []byte{byte(i)}})
	}

	got := o.drain()
	if len(got) != 4 {
		t.Fatalf("expected 4 items, got %d", len(got))
	}
	for i := 0; i < 4; i++ {
		want := byte(i + 10)
		if got[i].payload[0] != want {
			t.Errorf("item %d: expected payload %d, got %d", i, want, got[i].payload[0])
		}
	}
}

func TestOutboxLen(t *testing.T) {
	o := newOutbox(10)
	if o.len() != 0 {
		t.Errorf("expected len 0, got %d", o.len())
	}
	o.push(queuedMsg{})
	o.push(queuedMsg{})
	if o.len() != 2 {
		t.Errorf("expected len 2, got %d", o.len())
	}
	o.drain()
	if o.len() != 0 {
		t.Errorf("expected len 0 after drain, got %d", o.len())
	}
}

func TestOutboxPreservesFields(t *testing.T) {
	o := newOutbox(2)
	o.push(queuedMsg{topic: "audio/fader/system", payload: []byte("x"), qos: 1, retained: true})

	got := o.drain()
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].topic != "audio/fader/system" || got[0].qos != 1 || !got[0].retained {
		t.Errorf("fields not preserved: %+v", got[0])
	}
}
