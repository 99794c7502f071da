package sortvis

import (
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/sortvis/element"
	"github.com/opd-ai/sortvis/engine"
	"github.com/opd-ai/sortvis/event"
	"github.com/opd-ai/sortvis/stats"
)

func newTestVisualizer(t *testing.T, mutate func(*Options)) *Visualizer {
	t.Helper()
	opts := NewOptions()
	opts.ElementCount = 8
	opts.StepDelay = 0
	opts.Seed = 1
	if mutate != nil {
		mutate(opts)
	}
	viz, err := New(opts)
	require.NoError(t, err)
	return viz
}

// finishChan registers an OnFinish callback delivering outcomes on a
// channel.
func finishChan(viz *Visualizer) chan engine.Outcome {
	ch := make(chan engine.Outcome, 4)
	viz.OnFinish(func(outcome engine.Outcome, _ stats.Statistics) {
		ch <- outcome
	})
	return ch
}

// TestNewValidation verifies configuration errors are rejected
// synchronously with no instance created.
func TestNewValidation(t *testing.T) {
	opts := NewOptions()
	opts.ElementCount = 1
	_, err := New(opts)
	assert.ErrorIs(t, err, ErrElementCount)

	opts = NewOptions()
	opts.ElementCount = MaxElementCount + 1
	_, err = New(opts)
	assert.ErrorIs(t, err, ErrElementCount)

	opts = NewOptions()
	opts.Algorithm = engine.Algorithm(99)
	_, err = New(opts)
	assert.ErrorIs(t, err, engine.ErrUnknownAlgorithm)

	viz, err := New(nil)
	require.NoError(t, err)
	assert.Len(t, viz.Values(), NewOptions().ElementCount)
}

// TestSeededShuffleDeterminism verifies a fixed seed reproduces the
// initial permutation.
func TestSeededShuffleDeterminism(t *testing.T) {
	a := newTestVisualizer(t, nil)
	b := newTestVisualizer(t, nil)
	assert.Equal(t, a.Values(), b.Values())
}

// TestInitialSequenceIsPermutation verifies the working sequence holds
// exactly 1..n.
func TestInitialSequenceIsPermutation(t *testing.T) {
	viz := newTestVisualizer(t, func(o *Options) { o.ElementCount = 32 })
	values := viz.Values()
	sort.Ints(values)
	for i, v := range values {
		require.Equal(t, i+1, v)
	}
}

// TestFullRunLifecycle drives a complete sort end to end: subscribed
// stream, derived statistics, final sweep, and the sorted outcome.
func TestFullRunLifecycle(t *testing.T) {
	viz := newTestVisualizer(t, func(o *Options) { o.Algorithm = engine.Merge })
	rec := &event.Recorder{}
	viz.Subscribe(rec)
	done := finishChan(viz)

	initial := viz.Sequence()
	require.NoError(t, viz.Start())

	select {
	case outcome := <-done:
		assert.Equal(t, engine.OutcomeSorted, outcome)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not finish")
	}

	assert.False(t, viz.IsRunning())
	final := viz.Sequence()
	assert.True(t, final.IsSorted(element.Ascending))

	events := rec.Events()
	require.NotEmpty(t, events)

	var compares, swaps, completes int
	completeAt := -1
	for i, ev := range events {
		switch ev.Kind {
		case event.KindCompare:
			compares++
		case event.KindSwap:
			swaps++
		case event.KindComplete:
			completes++
			completeAt = i
		}
	}
	require.Equal(t, 1, completes)

	// Statistics are derived from the same stream the subscriber saw.
	s := viz.Statistics()
	assert.Equal(t, uint64(compares), s.Comparisons)
	assert.Equal(t, uint64(swaps), s.Swaps)
	assert.Greater(t, s.Elapsed, time.Duration(0))

	// Everything after Complete is the observational final sweep.
	for _, ev := range events[completeAt+1:] {
		assert.Equal(t, event.KindSetState, ev.Kind)
	}

	// The stream replays to the engine's final sequence.
	replayed, err := event.Replay(initial, events)
	require.NoError(t, err)
	assert.Equal(t, final.Values(), replayed.Values())
}

// TestStartWhileRunningRejected verifies the single-run contract and
// the reset-after-abort requirement.
func TestStartWhileRunningRejected(t *testing.T) {
	viz := newTestVisualizer(t, func(o *Options) { o.StepDelay = time.Hour })
	done := finishChan(viz)

	require.NoError(t, viz.Start())
	require.Eventually(t, viz.IsRunning, time.Second, time.Millisecond)
	assert.ErrorIs(t, viz.Start(), ErrNotIdle)

	viz.Cancel()
	select {
	case outcome := <-done:
		assert.Equal(t, engine.OutcomeAborted, outcome)
	case <-time.After(5 * time.Second):
		t.Fatal("cancel did not finish the run")
	}

	assert.ErrorIs(t, viz.Start(), ErrNeedsReset)
	viz.Reset()
	require.NoError(t, viz.Start())
	viz.Cancel()
}

// TestResetCancelsActiveRun verifies Reset synchronously awaits the
// cancelled run before regenerating the sequence.
func TestResetCancelsActiveRun(t *testing.T) {
	viz := newTestVisualizer(t, func(o *Options) {
		o.ElementCount = 64
		o.StepDelay = time.Hour
	})
	require.NoError(t, viz.Start())
	require.Eventually(t, viz.IsRunning, time.Second, time.Millisecond)

	viz.Reset()
	assert.False(t, viz.IsRunning())

	values := viz.Values()
	sort.Ints(values)
	for i, v := range values {
		require.Equal(t, i+1, v)
	}
	assert.Zero(t, viz.Statistics().Comparisons)

	// Aborted-by-reset state is discarded; a fresh run is allowed.
	require.NoError(t, viz.Start())
	viz.Reset()
}

// TestConfigureIdleOnly verifies Configure is rejected mid-run with no
// partial state change.
func TestConfigureIdleOnly(t *testing.T) {
	viz := newTestVisualizer(t, func(o *Options) { o.StepDelay = time.Hour })
	require.NoError(t, viz.Start())
	require.Eventually(t, viz.IsRunning, time.Second, time.Millisecond)

	err := viz.Configure(16, engine.Heap, element.Descending)
	assert.ErrorIs(t, err, ErrNotIdle)
	assert.Equal(t, 8, len(viz.Values()))

	viz.Reset()
	require.NoError(t, viz.Configure(16, engine.Heap, element.Descending))
	assert.Len(t, viz.Values(), 16)
	assert.Equal(t, engine.Heap, viz.Algorithm())
	assert.Equal(t, element.Descending, viz.Direction())

	assert.ErrorIs(t, viz.Configure(0, engine.Heap, element.Ascending), ErrElementCount)
}

// TestPauseStepResume verifies the controller pass-throughs against a
// live run: pause stalls the stream, step advances it by one
// checkpoint, resume lets it finish.
func TestPauseStepResume(t *testing.T) {
	viz := newTestVisualizer(t, func(o *Options) {
		o.ElementCount = 24
		o.Algorithm = engine.Bubble
		o.StepDelay = 2 * time.Millisecond
	})
	var counter atomic.Int64
	viz.Subscribe(event.SinkFunc(func(event.StepEvent) { counter.Add(1) }))
	done := finishChan(viz)

	require.NoError(t, viz.Start())
	viz.Pause()

	// Wait for the stream to stall at the parked checkpoint.
	stalled := func() bool {
		before := counter.Load()
		time.Sleep(50 * time.Millisecond)
		return counter.Load() == before
	}
	require.Eventually(t, stalled, 5*time.Second, 10*time.Millisecond)

	before := counter.Load()
	viz.Step()
	require.Eventually(t, func() bool { return counter.Load() > before },
		time.Second, time.Millisecond)
	require.Eventually(t, stalled, 5*time.Second, 10*time.Millisecond)

	viz.Resume()
	select {
	case outcome := <-done:
		assert.Equal(t, engine.OutcomeSorted, outcome)
	case <-time.After(30 * time.Second):
		t.Fatal("run did not finish after resume")
	}
}

// TestSetSpeedLive verifies the delay parameter is mutable while idle
// and mid-run.
func TestSetSpeedLive(t *testing.T) {
	viz := newTestVisualizer(t, nil)
	viz.SetSpeed(25 * time.Millisecond)
	assert.Equal(t, 25*time.Millisecond, viz.Speed())

	done := finishChan(viz)
	require.NoError(t, viz.Start())
	viz.SetSpeed(0)
	assert.Equal(t, time.Duration(0), viz.Speed())
	<-done
}

// TestControlsNoopWhileIdle verifies pause, resume, step, and cancel
// are safe with no active run.
func TestControlsNoopWhileIdle(t *testing.T) {
	viz := newTestVisualizer(t, nil)
	viz.Pause()
	viz.Resume()
	viz.Step()
	viz.Cancel()
	assert.False(t, viz.IsRunning())
}
