// Package tick provides the two periodic signals that pace the clock: a
// millisecond tick and a one-second tick.
//
// Each signal is a single boolean Flag. A producer sets it and returns; the
// polling loop reads and clears it in one atomic step. A flag set twice
// before it is taken represents a single tick: the extra tick is lost, and
// only counted for diagnostics.
package tick

import (
	"context"
	"sync/atomic"
	"time"
)

// Flag is a single-producer/single-consumer tick cell with coalescing.
type Flag struct {
	set       atomic.Bool
	coalesced atomic.Uint64
}

// Set raises the flag. If it was already raised, the tick is coalesced.
func (f *Flag) Set() {
	if f.set.Swap(true) {
		f.coalesced.Add(1)
	}
}

// Take reports whether the flag was raised and clears it atomically.
func (f *Flag) Take() bool {
	return f.set.Swap(false)
}

// Coalesced returns how many ticks were lost because the flag was already set.
func (f *Flag) Coalesced() uint64 {
	return f.coalesced.Load()
}

// Source drives a millisecond flag and a second flag from two independent
// tickers, with no phase relationship between them.
type Source struct {
	Milli  Flag
	Second Flag

	milliPeriod  time.Duration
	secondPeriod time.Duration
	wake         chan struct{}
}

// NewSource creates a source with the given tick periods.
func NewSource(milliPeriod, secondPeriod time.Duration) *Source {
	return &Source{
		milliPeriod:  milliPeriod,
		secondPeriod: secondPeriod,
		wake:         make(chan struct{}, 1),
	}
}

// Wake returns a channel that receives after any flag is raised. Sends never
// block; a pending wake-up absorbs further ones.
func (s *Source) Wake() <-chan struct{} {
	return s.wake
}

// Raise sets f and wakes the consumer. Tests use it to inject ticks.
func (s *Source) Raise(f *Flag) {
	f.Set()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run raises the flags until ctx is cancelled. It starts one goroutine per
// ticker and returns immediately.
func (s *Source) Run(ctx context.Context) {
	go s.drive(ctx, s.milliPeriod, &s.Milli)
	go s.drive(ctx, s.secondPeriod, &s.Second)
}

func (s *Source) drive(ctx context.Context, period time.Duration, f *Flag) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Raise(f)
		}
	}
}
