package mqtt

import (
	"fmt"
	"testing"
)

func eventMsg(n int) bufferedMsg {
	return bufferedMsg{topic: Topic, payload: []byte(fmt.Sprintf(`{"n":%d}`, n))}
}

func payloads(msgs []bufferedMsg) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = string(m.payload)
	}
	return out
}

func TestRingBufferDrainOrder(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		pushes   int
		want     []int
		dropped  int
	}{
		{"empty", 4, 0, nil, 0},
		{"partial", 4, 3, []int{0, 1, 2}, 0},
		{"exactly full", 4, 4, []int{0, 1, 2, 3}, 0},
		{"overflow keeps newest", 4, 7, []int{3, 4, 5, 6}, 3},
		{"overflow wraps twice", 3, 10, []int{7, 8, 9}, 7},
		{"zero capacity drops all", 0, 5, nil, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := newRingBuffer(tt.capacity)
			for i := 0; i < tt.pushes; i++ {
				rb.push(eventMsg(i))
			}

			if rb.dropped != tt.dropped {
				t.Errorf("dropped: got %d, want %d", rb.dropped, tt.dropped)
			}
			if rb.len() != len(tt.want) {
				t.Errorf("len: got %d, want %d", rb.len(), len(tt.want))
			}

			got := payloads(rb.drainAll())
			if len(got) != len(tt.want) {
				t.Fatalf("drained %d messages, want %d: %v", len(got), len(tt.want), got)
			}
			for i, n := range tt.want {
				if want := string(eventMsg(n).payload); got[i] != want {
					t.Errorf("message %d: got %s, want %s", i, got[i], want)
				}
			}

			if rb.len() != 0 || rb.dropped != 0 {
				t.Errorf("drain should reset buffer: len=%d dropped=%d", rb.len(), rb.dropped)
			}
		})
	}
}

func TestRingBufferReuseAfterDrain(t *testing.T) {
	rb := newRingBuffer(3)

	// Offline, reconnect, offline again.
	for i := 0; i < 5; i++ {
		rb.push(eventMsg(i))
	}
	first := payloads(rb.drainAll())

	rb.push(eventMsg(10))
	rb.push(eventMsg(11))
	second := payloads(rb.drainAll())

	if len(first) != 3 || first[0] != `{"n":2}` {
		t.Errorf("first drain: got %v", first)
	}
	if len(second) != 2 || second[0] != `{"n":10}` || second[1] != `{"n":11}` {
		t.Errorf("second drain: got %v", second)
	}
	if got := rb.drainAll(); got != nil {
		t.Errorf("expected nil from empty drain, got %v", payloads(got))
	}
}

func TestRingBufferKeepsDeliveryOptions(t *testing.T) {
	rb := newRingBuffer(4)
	rb.push(bufferedMsg{topic: TopicSystem, payload: []byte(`{"system":{}}`), qos: 1, retained: true})
	rb.push(eventMsg(1))

	got := rb.drainAll()
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].topic != TopicSystem || got[0].qos != 1 || !got[0].retained {
		t.Errorf("system message options lost: %+v", got[0])
	}
	if got[1].topic != Topic || got[1].qos != 0 || got[1].retained {
		t.Errorf("event message options changed: %+v", got[1])
	}
}
