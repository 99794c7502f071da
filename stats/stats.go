// Package stats derives running sort statistics purely by observing the
// step-event stream. Algorithms never increment counters themselves;
// the accumulator is an event.Sink decorator, so the engine stays
// decoupled from any particular metrics consumer.
package stats

import (
	"sync"
	"time"

	"github.com/opd-ai/sortvis/event"
)

// Statistics is a point-in-time snapshot of the derived counters for
// one run. All counters are monotonically non-decreasing between
// resets.
type Statistics struct {
	// Comparisons counts Compare events.
	Comparisons uint64
	// Swaps counts Swap events.
	Swaps uint64
	// ElementAccesses counts array reads and writes implied by the
	// stream: 2 per comparison, 4 per swap (two reads, two writes),
	// 2 per overwrite (source read, destination write).
	ElementAccesses uint64
	// Elapsed is wall-clock time from run start until Complete, abort,
	// or now for a run still in flight.
	Elapsed time.Duration
}

// TimeProvider abstracts the clock for deterministic testing.
type TimeProvider interface {
	Now() time.Time
}

// DefaultTimeProvider uses the system clock.
type DefaultTimeProvider struct{}

// Now returns the current system time.
func (DefaultTimeProvider) Now() time.Time { return time.Now() }

// Accumulator observes a run's event stream and maintains Statistics.
// It is safe for concurrent use: the engine goroutine feeds OnStep
// while consumers read snapshots.
type Accumulator struct {
	mu sync.RWMutex

	comparisons uint64
	swaps       uint64
	accesses    uint64

	startedAt time.Time
	stoppedAt time.Time
	running   bool

	clock TimeProvider
}

// NewAccumulator creates an accumulator at zero. A nil clock falls back
// to the system clock.
func NewAccumulator(clock TimeProvider) *Accumulator {
	if clock == nil {
		clock = DefaultTimeProvider{}
	}
	return &Accumulator{clock: clock}
}

// Reset zeroes every counter and clears run timing. Called at sort
// start by the facade.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.comparisons = 0
	a.swaps = 0
	a.accesses = 0
	a.startedAt = time.Time{}
	a.stoppedAt = time.Time{}
	a.running = false
}

// Start marks the beginning of a run's elapsed-time window.
func (a *Accumulator) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.startedAt = a.clock.Now()
	a.stoppedAt = time.Time{}
	a.running = true
}

// Stop closes the elapsed-time window. Used for aborted runs, which
// never see a Complete event. Stopping an already-stopped accumulator
// is a no-op.
func (a *Accumulator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

func (a *Accumulator) stopLocked() {
	if !a.running {
		return
	}
	a.stoppedAt = a.clock.Now()
	a.running = false
}

// OnStep implements event.Sink, updating the counters the event
// implies.
func (a *Accumulator) OnStep(ev event.StepEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch ev.Kind {
	case event.KindCompare:
		a.comparisons++
		a.accesses += 2
	case event.KindSwap:
		a.swaps++
		a.accesses += 4
	case event.KindOverwrite:
		a.accesses += 2
	case event.KindComplete:
		a.stopLocked()
	case event.KindSetState:
		// Markers cost no element access.
	}
}

// Snapshot returns the current Statistics.
func (a *Accumulator) Snapshot() Statistics {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var elapsed time.Duration
	switch {
	case a.startedAt.IsZero():
	case a.running:
		elapsed = a.clock.Now().Sub(a.startedAt)
	default:
		elapsed = a.stoppedAt.Sub(a.startedAt)
	}
	return Statistics{
		Comparisons:     a.comparisons,
		Swaps:           a.swaps,
		ElementAccesses: a.accesses,
		Elapsed:         elapsed,
	}
}
