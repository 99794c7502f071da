// Package sortvis implements an instrumented sorting engine for
// real-time visualization drivers.
//
// A Visualizer owns a working sequence of elements and runs one of
// fourteen sorting algorithms over it, emitting a strictly ordered
// stream of step events (comparisons, state markers, swaps, overwrites)
// that an external consumer turns into animation, audio, or statistics.
// Playback is gated by a cooperative controller giving pause, resume,
// single-step, and cancel semantics with bounded cancellation latency.
//
// Example:
//
//	options := sortvis.NewOptions()
//	options.ElementCount = 64
//	options.Algorithm = engine.Quick
//
//	viz, err := sortvis.New(options)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	viz.Subscribe(event.SinkFunc(func(ev event.StepEvent) {
//	    // drive the display from ev
//	}))
//	viz.OnFinish(func(outcome engine.Outcome, s stats.Statistics) {
//	    fmt.Printf("%s in %s (%d comparisons)\n", outcome, s.Elapsed, s.Comparisons)
//	})
//
//	if err := viz.Start(); err != nil {
//	    log.Fatal(err)
//	}
package sortvis

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/sortvis/control"
	"github.com/opd-ai/sortvis/element"
	"github.com/opd-ai/sortvis/engine"
	"github.com/opd-ai/sortvis/event"
	"github.com/opd-ai/sortvis/stats"
)

// Supported element-count bounds for a working sequence.
const (
	MinElementCount = 2
	MaxElementCount = 4096
)

// Sentinel errors for visualizer lifecycle operations.
var (
	// ErrNotIdle indicates an operation that requires an idle visualizer
	// was called while a sort is running.
	ErrNotIdle = errors.New("visualizer is not idle")

	// ErrElementCount indicates an element count outside the supported
	// bounds.
	ErrElementCount = errors.New("element count out of bounds")

	// ErrNeedsReset indicates the last run aborted; the partially
	// reordered sequence must be discarded with Reset before starting
	// again.
	ErrNeedsReset = errors.New("aborted run requires reset before start")
)

// Options contains configuration for creating a Visualizer.
type Options struct {
	// ElementCount is the working-sequence length, within
	// [MinElementCount, MaxElementCount].
	ElementCount int

	// Algorithm selects the sorting algorithm.
	Algorithm engine.Algorithm

	// Direction selects ascending or descending output order.
	Direction element.Direction

	// StepDelay is the initial per-step delay applied at every engine
	// checkpoint. Zero runs unthrottled.
	StepDelay time.Duration

	// Seed seeds the shuffle generator. Zero derives a seed from the
	// clock.
	Seed int64
}

// NewOptions creates Options with sensible visualization defaults.
func NewOptions() *Options {
	return &Options{
		ElementCount: 64,
		Algorithm:    engine.Bubble,
		Direction:    element.Ascending,
		StepDelay:    15 * time.Millisecond,
	}
}

// FinishFunc receives the terminal outcome of a run together with the
// final statistics snapshot.
type FinishFunc func(outcome engine.Outcome, statistics stats.Statistics)

// Visualizer is the driver-facing facade over the sorting engine. It
// owns the working sequence, enforces the single-run-at-a-time
// contract, and wires the event stream to the subscribed sink and the
// statistics accumulator.
//
// The working sequence has exactly one writer (the running algorithm).
// Consumers mirror its state from the event stream; Sequence and Values
// are only meaningful while the visualizer is idle.
type Visualizer struct {
	mu sync.RWMutex

	opts Options
	seq  element.Sequence
	rng  *rand.Rand

	sink     event.Sink
	onFinish FinishFunc
	acc      *stats.Accumulator

	ctrl    *control.Controller
	runDone chan struct{}
	running bool
	aborted bool
}

// New creates a Visualizer, validates the options, and builds the
// initial random permutation. A nil opts uses NewOptions defaults.
func New(opts *Options) (*Visualizer, error) {
	if opts == nil {
		opts = NewOptions()
	}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logrus.WithFields(logrus.Fields{
		"function":  "New",
		"count":     opts.ElementCount,
		"algorithm": opts.Algorithm.String(),
		"direction": opts.Direction.String(),
		"delay":     opts.StepDelay,
	}).Info("Creating visualizer")

	v := &Visualizer{
		opts: *opts,
		rng:  rand.New(rand.NewSource(seed)),
		acc:  stats.NewAccumulator(nil),
	}
	v.seq = element.RandomPermutation(v.opts.ElementCount, v.rng)
	return v, nil
}

func validateOptions(opts *Options) error {
	if opts.ElementCount < MinElementCount || opts.ElementCount > MaxElementCount {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrElementCount,
			opts.ElementCount, MinElementCount, MaxElementCount)
	}
	if !opts.Algorithm.Valid() {
		return fmt.Errorf("%w: %d", engine.ErrUnknownAlgorithm, opts.Algorithm)
	}
	return nil
}

// Configure updates element count, algorithm, and direction, then
// rebuilds the working sequence. Valid only while idle; a running
// visualizer rejects the call with no partial state change.
func (v *Visualizer) Configure(count int, algo engine.Algorithm, dir element.Direction) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.running {
		return ErrNotIdle
	}
	next := v.opts
	next.ElementCount = count
	next.Algorithm = algo
	next.Direction = dir
	if err := validateOptions(&next); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function":  "Configure",
		"count":     count,
		"algorithm": algo.String(),
		"direction": dir.String(),
	}).Info("Visualizer reconfigured")

	v.opts = next
	v.resetLocked()
	return nil
}

// Reset cancels any active sort, synchronously awaits its termination,
// regenerates a random permutation of 1..ElementCount, and zeroes the
// statistics. The await guarantees no stale algorithm invocation writes
// into the replaced sequence.
func (v *Visualizer) Reset() {
	v.mu.Lock()
	ctrl, done, running := v.ctrl, v.runDone, v.running
	v.mu.Unlock()

	if running && ctrl != nil {
		ctrl.Cancel()
		<-done
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.resetLocked()
	logrus.WithFields(logrus.Fields{
		"function": "Reset",
		"count":    v.opts.ElementCount,
	}).Info("Visualizer reset")
}

func (v *Visualizer) resetLocked() {
	v.seq = element.RandomPermutation(v.opts.ElementCount, v.rng)
	v.acc.Reset()
	v.aborted = false
	v.ctrl = nil
	v.runDone = nil
}

// Start begins algorithm execution on its own goroutine. It is rejected
// while a run is active, and after an aborted run until Reset discards
// the partially reordered sequence.
func (v *Visualizer) Start() error {
	v.mu.Lock()
	if v.running {
		v.mu.Unlock()
		return ErrNotIdle
	}
	if v.aborted {
		v.mu.Unlock()
		return ErrNeedsReset
	}

	ctrl := control.New(v.opts.StepDelay)
	done := make(chan struct{})
	v.ctrl = ctrl
	v.runDone = done
	v.running = true

	v.acc.Reset()
	v.acc.Start()

	sinks := event.Fanout{v.acc}
	if v.sink != nil {
		sinks = append(sinks, v.sink)
	}
	em := event.NewEmitter(sinks)

	seq := v.seq
	algo := v.opts.Algorithm
	dir := v.opts.Direction
	v.mu.Unlock()

	go v.runSort(seq, algo, dir, ctrl, em, done)
	return nil
}

func (v *Visualizer) runSort(seq element.Sequence, algo engine.Algorithm, dir element.Direction, ctrl *control.Controller, em *event.Emitter, done chan struct{}) {
	outcome, err := engine.RunEmitter(seq, algo, dir, ctrl, em)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":  "runSort",
			"algorithm": algo.String(),
			"error":     err.Error(),
		}).Error("Sort run failed")
	}

	if outcome == engine.OutcomeSorted {
		// Confirmation pass; a cancel here does not demote the outcome,
		// the sequence is already fully sorted.
		if err := engine.FinalSweep(seq, ctrl, em); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "runSort",
			}).Debug("Final sweep interrupted")
		}
	} else {
		v.acc.Stop()
	}

	v.mu.Lock()
	v.running = false
	v.aborted = outcome == engine.OutcomeAborted
	v.ctrl = nil
	cb := v.onFinish
	v.mu.Unlock()

	close(done)
	if cb != nil {
		cb(outcome, v.acc.Snapshot())
	}
}

// Pause parks the running sort at its next checkpoint. No-op while idle.
func (v *Visualizer) Pause() {
	if ctrl := v.controller(); ctrl != nil {
		ctrl.Pause()
	}
}

// Resume releases a paused sort. No-op while idle.
func (v *Visualizer) Resume() {
	if ctrl := v.controller(); ctrl != nil {
		ctrl.Resume()
	}
}

// Step advances a paused sort by exactly one checkpoint. No-op unless
// paused.
func (v *Visualizer) Step() {
	if ctrl := v.controller(); ctrl != nil {
		ctrl.Step()
	}
}

// Cancel requests cooperative abort of the running sort. Idempotent;
// no-op while idle. The run surfaces OutcomeAborted through OnFinish
// within one checkpoint.
func (v *Visualizer) Cancel() {
	if ctrl := v.controller(); ctrl != nil {
		ctrl.Cancel()
	}
}

func (v *Visualizer) controller() *control.Controller {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.ctrl
}

// SetSpeed updates the per-step delay. A live run observes the change
// at its next suspension.
func (v *Visualizer) SetSpeed(delay time.Duration) {
	v.mu.Lock()
	v.opts.StepDelay = delay
	ctrl := v.ctrl
	v.mu.Unlock()
	if ctrl != nil {
		ctrl.SetDelay(delay)
	}
}

// Speed returns the current per-step delay.
func (v *Visualizer) Speed() time.Duration {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.opts.StepDelay
}

// Subscribe registers the sink receiving the step-event stream. The
// registration is captured at Start, so a subscription made mid-run
// takes effect on the next run.
func (v *Visualizer) Subscribe(sink event.Sink) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sink = sink
}

// OnFinish registers the callback receiving each run's terminal outcome
// and final statistics.
func (v *Visualizer) OnFinish(cb FinishFunc) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onFinish = cb
}

// IsRunning reports whether a sort is currently executing.
func (v *Visualizer) IsRunning() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.running
}

// Statistics returns the current derived counters snapshot.
func (v *Visualizer) Statistics() stats.Statistics {
	return v.acc.Snapshot()
}

// Algorithm returns the configured algorithm.
func (v *Visualizer) Algorithm() engine.Algorithm {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.opts.Algorithm
}

// Direction returns the configured direction.
func (v *Visualizer) Direction() element.Direction {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.opts.Direction
}

// Sequence returns a copy of the working sequence. Meaningful only
// while idle; during a run the engine is the sequence's single writer
// and consumers mirror state from the event stream instead.
func (v *Visualizer) Sequence() element.Sequence {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.seq.Clone()
}

// Values returns a copy of the working sequence's values. Same idle
// caveat as Sequence.
func (v *Visualizer) Values() []int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.seq.Values()
}
