// Package engine implements the instrumented sorting engine: fourteen
// sorting algorithms that mutate a working sequence in place while
// emitting one step event per atomic action and yielding at controller
// checkpoints.
//
// Every algorithm follows the same contract. All comparisons go through
// one direction-aware predicate, every inner loop contains at least one
// suspension-eligible checkpoint, and a run terminates either by
// completing the sort (every element marked sorted, then a Complete
// event) or by observing a cooperative abort, in which case the
// sequence is left as a valid permutation and nothing further is
// emitted.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/sortvis/control"
	"github.com/opd-ai/sortvis/element"
	"github.com/opd-ai/sortvis/event"
)

// Algorithm identifies one of the fourteen sorting algorithms.
type Algorithm uint8

const (
	Bubble Algorithm = iota
	Cocktail
	Selection
	Insertion
	Gnome
	Shell
	Comb
	Quick
	Heap
	Merge
	Tim
	Counting
	Radix
	Cycle

	algorithmCount
)

var algorithmNames = [algorithmCount]string{
	Bubble:    "bubble",
	Cocktail:  "cocktail",
	Selection: "selection",
	Insertion: "insertion",
	Gnome:     "gnome",
	Shell:     "shell",
	Comb:      "comb",
	Quick:     "quick",
	Heap:      "heap",
	Merge:     "merge",
	Tim:       "tim",
	Counting:  "counting",
	Radix:     "radix",
	Cycle:     "cycle",
}

// String returns the lower-case algorithm name.
func (a Algorithm) String() string {
	if a < algorithmCount {
		return algorithmNames[a]
	}
	return "unknown"
}

// Valid reports whether a names a known algorithm.
func (a Algorithm) Valid() bool { return a < algorithmCount }

// ErrUnknownAlgorithm indicates an algorithm value outside the known set.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Parse resolves a case-insensitive algorithm name.
func Parse(name string) (Algorithm, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for a, n := range algorithmNames {
		if n == want {
			return Algorithm(a), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Algorithms returns every known algorithm in declaration order.
func Algorithms() []Algorithm {
	all := make([]Algorithm, algorithmCount)
	for i := range all {
		all[i] = Algorithm(i)
	}
	return all
}

// routine maps an algorithm to its instrumented implementation. The
// switch is exhaustive over the closed enum; extending the set without
// a case here fails at the returned error in every test.
func (a Algorithm) routine() (func(*run) error, error) {
	switch a {
	case Bubble:
		return (*run).bubble, nil
	case Cocktail:
		return (*run).cocktail, nil
	case Selection:
		return (*run).selection, nil
	case Insertion:
		return (*run).insertion, nil
	case Gnome:
		return (*run).gnome, nil
	case Shell:
		return (*run).shell, nil
	case Comb:
		return (*run).comb, nil
	case Quick:
		return (*run).quick, nil
	case Heap:
		return (*run).heap, nil
	case Merge:
		return (*run).merge, nil
	case Tim:
		return (*run).tim, nil
	case Counting:
		return (*run).counting, nil
	case Radix:
		return (*run).radix, nil
	case Cycle:
		return (*run).cycle, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, a)
	}
}

// Outcome is the terminal result of a run.
type Outcome uint8

const (
	// OutcomeSorted indicates the run completed and every element is in
	// final position.
	OutcomeSorted Outcome = iota
	// OutcomeAborted indicates the run observed a cooperative abort and
	// stopped at a checkpoint, leaving a valid but unsorted permutation.
	OutcomeAborted
)

// String returns the outcome name.
func (o Outcome) String() string {
	if o == OutcomeAborted {
		return "aborted"
	}
	return "sorted"
}

// run carries the per-invocation state every algorithm operates on: the
// working sequence, the direction policy, the controller gating
// checkpoints, and the emitter stamping the event stream.
type run struct {
	seq  element.Sequence
	dir  element.Direction
	ctrl *control.Controller
	em   *event.Emitter
}

// Run executes one algorithm over seq, emitting the step-event stream
// into sink. A nil ctrl runs ungated at zero delay; combined with a nil
// sink that is the "pure sort" configuration — the same instrumented
// code path with the instruments unplugged.
//
// Sequences of length 0 or 1 emit no Compare or Swap events and
// complete immediately.
func Run(seq element.Sequence, algo Algorithm, dir element.Direction, ctrl *control.Controller, sink event.Sink) (Outcome, error) {
	return RunEmitter(seq, algo, dir, ctrl, event.NewEmitter(sink))
}

// RunEmitter is Run with a caller-supplied emitter, so the logical
// order numbering can continue across a subsequent final sweep.
func RunEmitter(seq element.Sequence, algo Algorithm, dir element.Direction, ctrl *control.Controller, em *event.Emitter) (Outcome, error) {
	routine, err := algo.routine()
	if err != nil {
		return OutcomeAborted, err
	}
	if ctrl == nil {
		ctrl = control.New(0)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "RunEmitter",
		"algorithm": algo.String(),
		"direction": dir.String(),
		"count":     len(seq),
	}).Info("Starting sort run")

	r := &run{seq: seq, dir: dir, ctrl: ctrl, em: em}
	if len(seq) > 1 {
		if err := routine(r); err != nil {
			if errors.Is(err, control.ErrAborted) {
				logrus.WithFields(logrus.Fields{
					"function":  "RunEmitter",
					"algorithm": algo.String(),
					"events":    em.Emitted(),
				}).Info("Sort run aborted at checkpoint")
				return OutcomeAborted, nil
			}
			return OutcomeAborted, err
		}
	}
	r.finish()
	em.Complete()

	logrus.WithFields(logrus.Fields{
		"function":  "RunEmitter",
		"algorithm": algo.String(),
		"events":    em.Emitted(),
	}).Info("Sort run completed")
	return OutcomeSorted, nil
}

// less reports whether the element at i precedes the element at j under
// the run's direction, emitting the comparison and yielding at the
// checkpoint.
func (r *run) less(i, j int) (bool, error) {
	r.em.Compare(i, j)
	if err := r.ctrl.AwaitStep(); err != nil {
		return false, err
	}
	return r.dir.Precedes(r.seq[i].Value, r.seq[j].Value), nil
}

// lessVals compares explicit values attributed to indices i and j, used
// where a source value lives in a snapshot rather than the working
// sequence (merge and tim's rebuild passes, cycle's in-hand item).
func (r *run) lessVals(a, b int, i, j int) (bool, error) {
	r.em.Compare(i, j)
	if err := r.ctrl.AwaitStep(); err != nil {
		return false, err
	}
	return r.dir.Precedes(a, b), nil
}

// equalVals reports value equality attributed to indices i and j,
// emitting a single comparison.
func (r *run) equalVals(a, b int, i, j int) (bool, error) {
	r.em.Compare(i, j)
	if err := r.ctrl.AwaitStep(); err != nil {
		return false, err
	}
	return a == b, nil
}

// mark sets the visual state at i and emits the change. Markers are
// housekeeping; they never yield at a checkpoint.
func (r *run) mark(i int, state element.VisualState) {
	if r.seq[i].State == state {
		return
	}
	r.seq[i].State = state
	r.em.SetState(i, state)
}

// swap exchanges the elements at i and j, emits the exchange, and
// yields at the checkpoint. Visual states travel with their elements;
// callers re-mark by index afterwards where needed.
func (r *run) swap(i, j int) error {
	r.seq[i], r.seq[j] = r.seq[j], r.seq[i]
	r.em.Swap(i, j)
	return r.ctrl.AwaitStep()
}

// overwrite writes src into destination index i, preserving the
// destination slot's visual marker, emits the write, and yields at the
// checkpoint. This is the rebuild primitive: between the snapshot read
// and this write, two conceptual copies of src coexist.
func (r *run) overwrite(i int, src element.Element) error {
	state := r.seq[i].State
	r.seq[i] = src
	r.seq[i].State = state
	r.em.Overwrite(i, src)
	return r.ctrl.AwaitStep()
}

// checkpoint yields without emitting, used by non-comparison scan loops
// so cancellation latency stays bounded there too.
func (r *run) checkpoint() error {
	return r.ctrl.AwaitStep()
}

// finish marks every element not already sorted as sorted. Running it
// before Complete makes the all-sorted invariant structural rather than
// per-algorithm bookkeeping.
func (r *run) finish() {
	for i := range r.seq {
		r.mark(i, element.StateSorted)
	}
}
