package mqtt

import "log"

// bufferedMsg is a serialized message held while the broker is unreachable.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// ringBuffer keeps the most recent messages published while disconnected,
// dropping the oldest when full. Not safe for concurrent use.
type ringBuffer struct {
	buf     []bufferedMsg
	head    int // next write position
	count   int
	dropped int // messages lost since the last drain
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{buf: make([]bufferedMsg, capacity)}
}

func (r *ringBuffer) push(msg bufferedMsg) {
	capacity := len(r.buf)
	if capacity == 0 {
		r.dropped++
		return
	}
	if r.count == capacity {
		if r.dropped == 0 {
			log.Printf("mqtt: offline buffer full (%d messages), dropping oldest", capacity)
		}
		r.dropped++
		// head points at the oldest entry when full
		r.buf[r.head] = msg
		r.head = (r.head + 1) % capacity
		return
	}
	r.buf[r.head] = msg
	r.head = (r.head + 1) % capacity
	r.count++
}

// drainAll returns the buffered messages oldest first and empties the buffer.
func (r *ringBuffer) drainAll() []bufferedMsg {
	if r.count == 0 {
		r.dropped = 0
		return nil
	}

	capacity := len(r.buf)
	result := make([]bufferedMsg, r.count)
	start := (r.head - r.count + capacity) % capacity
	for i := 0; i < r.count; i++ {
		result[i] = r.buf[(start+i)%capacity]
	}

	r.count = 0
	r.head = 0
	r.dropped = 0
	return result
}

func (r *ringBuffer) len() int {
	return r.count
}
