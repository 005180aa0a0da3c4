package logic

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeValue is the clock's time of day. Every field is kept within its modulus.
type TimeValue struct {
	Hours   uint8
	Minutes uint8
	Seconds uint8
}

// ParseTimeValue parses "HH:MM:SS" or "MM:SS".
func ParseTimeValue(s string) (TimeValue, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeValue{}, fmt.Errorf("time %q: want HH:MM:SS or MM:SS", s)
	}
	fields := []Field{FieldMinutes, FieldSeconds}
	if len(parts) == 3 {
		fields = []Field{FieldHours, FieldMinutes, FieldSeconds}
	}

	var tv TimeValue
	for i, f := range fields {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return TimeValue{}, fmt.Errorf("time %q: %w", s, err)
		}
		if n < 0 || n >= int(f.Modulus()) {
			return TimeValue{}, fmt.Errorf("time %q: %s %d out of range", s, strings.ToLower(f.String()), n)
		}
		*tv.ptr(f) = uint8(n)
	}
	return tv, nil
}

func (t TimeValue) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}

// Get returns the value of field f.
func (t TimeValue) Get(f Field) uint8 {
	switch f {
	case FieldHours:
		return t.Hours
	case FieldMinutes:
		return t.Minutes
	}
	return t.Seconds
}

func (t *TimeValue) ptr(f Field) *uint8 {
	switch f {
	case FieldHours:
		return &t.Hours
	case FieldMinutes:
		return &t.Minutes
	}
	return &t.Seconds
}

// Advance adds one second, carrying into minutes and, when trackHours is set,
// into hours. Without hours, minutes wrap 59 -> 0.
func (t *TimeValue) Advance(trackHours bool) {
	if !t.increment(FieldSeconds) {
		return
	}
	if !t.increment(FieldMinutes) {
		return
	}
	if trackHours {
		t.increment(FieldHours)
	}
}

// Adjust applies delta (+1 or -1) to field f with wraparound and no carry.
func (t *TimeValue) Adjust(f Field, delta int) {
	if delta > 0 {
		t.increment(f)
	} else if delta < 0 {
		t.decrement(f)
	}
}

// increment reports whether the field wrapped to zero.
func (t *TimeValue) increment(f Field) bool {
	p := t.ptr(f)
	if *p+1 >= f.Modulus() {
		*p = 0
		return true
	}
	*p++
	return false
}

func (t *TimeValue) decrement(f Field) {
	p := t.ptr(f)
	if *p == 0 {
		*p = f.Modulus()
	}
	*p--
}
