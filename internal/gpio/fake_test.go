package gpio

import (
	"errors"
	"testing"
)

func TestFakeReaderRead(t *testing.T) {
	samples := []uint8{Pressed(0), Pressed(1, 2), Idle}

	f := NewFakeReader(samples)

	for i, want := range samples {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("sample %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("sample %d: expected %#08b, got %#08b", i, want, got)
		}
	}

	// Further reads repeat the last sample
	got, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Idle {
		t.Errorf("repeat: expected %#08b, got %#08b", Idle, got)
	}
}

func TestFakeReaderNoSamples(t *testing.T) {
	f := NewFakeReader(nil)

	raw, err := f.Read()
	if err == nil {
		t.Error("expected error with no samples")
	}
	if raw != Idle {
		t.Errorf("expected idle reading on error, got %#08b", raw)
	}
}

func TestFakeReaderError(t *testing.T) {
	f := NewFakeReader([]uint8{Idle})
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	if err == nil {
		t.Error("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeReaderClose(t *testing.T) {
	f := NewFakeReader([]uint8{Idle})

	if f.Closed {
		t.Error("should not be closed initially")
	}

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeReaderReset(t *testing.T) {
	f := NewFakeReader([]uint8{Pressed(0), Idle})

	f.Read()
	f.Reset()

	raw, _ := f.Read()
	if raw != Pressed(0) {
		t.Errorf("after reset: expected %#08b, got %#08b", Pressed(0), raw)
	}
}

func TestPressed(t *testing.T) {
	tests := []struct {
		lines []int
		want  uint8
	}{
		{nil, 0xFF},
		{[]int{0}, 0xFE},
		{[]int{1, 2}, 0xF9},
		{[]int{7}, 0x7F},
	}
	for _, tt := range tests {
		if got := Pressed(tt.lines...); got != tt.want {
			t.Errorf("Pressed(%v): expected %#x, got %#x", tt.lines, tt.want, got)
		}
	}
}

func TestRepeat(t *testing.T) {
	got := Repeat(Pressed(1), 4)
	if len(got) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(got))
	}
	for i, raw := range got {
		if raw != Pressed(1) {
			t.Errorf("sample %d: expected %#x, got %#x", i, Pressed(1), raw)
		}
	}
}
