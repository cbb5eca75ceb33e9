package mqtt

import "log"

// queuedMsg is a serialized message held while the broker is unreachable.
type queuedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox is a fixed-capacity FIFO of messages awaiting reconnection. When
// full the oldest reading is dropped; a fresh fader value supersedes a stale
// one anyway. Not safe for concurrent use — caller must synchronize.
type outbox struct {
	msgs    []queuedMsg
	tail    int // next write position
	size    int
	dropped bool // a message was dropped since the last drain
}

func newOutbox(capacity int) *outbox {
	return &outbox{msgs: make([]queuedMsg, capacity)}
}

func (o *outbox) push(msg queuedMsg) {
	capacity := len(o.msgs)
	if o.size == capacity {
		if !o.dropped {
			log.Printf("mqtt: outbox full (%d messages), dropping oldest", capacity)
			o.dropped = true
		}
		// tail points at the oldest entry when full; overwrite it
		o.msgs[o.tail] = msg
		o.tail = (o.tail + 1) % capacity
		return
	}
	o.msgs[o.tail] = msg
	o.tail = (o.tail + 1) % capacity
	o.size++
}

// drain returns all queued messages oldest-first and empties the outbox.
func (o *outbox) drain() []queuedMsg {
	if o.size == 0 {
		return nil
	}

	capacity := len(o.msgs)
	out := make([]queuedMsg, o.size)
	start := (o.tail - o.size + capacity) % capacity
	for i := range out {
		out[i] = o.msgs[(start+i)%capacity]
	}

	o.size = 0
	o.tail = 0
	o.dropped = false
	return out
}

func (o *outbox) len() int {
	return o.size
}
