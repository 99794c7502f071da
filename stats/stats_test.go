package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/sortvis/element"
	"github.com/opd-ai/sortvis/event"
)

// fakeClock is a manually advanced TimeProvider for deterministic
// elapsed-time assertions.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

// TestScriptedDerivation verifies the exact counter arithmetic: N
// compares and M swaps derive comparisons=N, swaps=M, and accesses
// 2N+4M plus 2 per overwrite.
func TestScriptedDerivation(t *testing.T) {
	acc := NewAccumulator(nil)
	acc.Start()

	const compares, swaps, overwrites = 7, 3, 2
	for i := 0; i < compares; i++ {
		acc.OnStep(event.StepEvent{Kind: event.KindCompare, I: 0, J: 1})
	}
	for i := 0; i < swaps; i++ {
		acc.OnStep(event.StepEvent{Kind: event.KindSwap, I: 0, J: 1})
	}
	for i := 0; i < overwrites; i++ {
		acc.OnStep(event.StepEvent{Kind: event.KindOverwrite, I: 0})
	}

	s := acc.Snapshot()
	assert.Equal(t, uint64(compares), s.Comparisons)
	assert.Equal(t, uint64(swaps), s.Swaps)
	assert.Equal(t, uint64(2*compares+4*swaps+2*overwrites), s.ElementAccesses)
}

// TestMarkersAreFree verifies SetState events derive no counters.
func TestMarkersAreFree(t *testing.T) {
	acc := NewAccumulator(nil)
	acc.Start()
	for i := 0; i < 10; i++ {
		acc.OnStep(event.StepEvent{Kind: event.KindSetState, I: i, State: element.StateComparing})
	}

	s := acc.Snapshot()
	assert.Zero(t, s.Comparisons)
	assert.Zero(t, s.Swaps)
	assert.Zero(t, s.ElementAccesses)
}

// TestElapsedStopsAtComplete verifies the Complete event closes the
// elapsed window.
func TestElapsedStopsAtComplete(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	acc := NewAccumulator(clock)
	acc.Start()

	clock.advance(250 * time.Millisecond)
	acc.OnStep(event.StepEvent{Kind: event.KindComplete})

	clock.advance(time.Hour)
	assert.Equal(t, 250*time.Millisecond, acc.Snapshot().Elapsed)
}

// TestElapsedStopsOnAbort verifies Stop closes the window for runs that
// never see a Complete event.
func TestElapsedStopsOnAbort(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	acc := NewAccumulator(clock)
	acc.Start()

	clock.advance(40 * time.Millisecond)
	acc.Stop()
	acc.Stop() // idempotent

	clock.advance(time.Hour)
	assert.Equal(t, 40*time.Millisecond, acc.Snapshot().Elapsed)
}

// TestElapsedRunsLive verifies an in-flight run reports a growing
// elapsed value.
func TestElapsedRunsLive(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	acc := NewAccumulator(clock)
	acc.Start()

	clock.advance(10 * time.Millisecond)
	first := acc.Snapshot().Elapsed
	clock.advance(10 * time.Millisecond)
	second := acc.Snapshot().Elapsed
	assert.Greater(t, second, first)
}

// TestResetZeroesEverything verifies Reset returns the accumulator to
// its initial state.
func TestResetZeroesEverything(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	acc := NewAccumulator(clock)
	acc.Start()
	acc.OnStep(event.StepEvent{Kind: event.KindCompare})
	acc.OnStep(event.StepEvent{Kind: event.KindSwap})
	clock.advance(time.Second)

	acc.Reset()
	s := acc.Snapshot()
	require.Zero(t, s.Comparisons)
	require.Zero(t, s.Swaps)
	require.Zero(t, s.ElementAccesses)
	require.Zero(t, s.Elapsed)
}
