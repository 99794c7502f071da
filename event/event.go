// Package event defines the step-event vocabulary emitted by the sorting
// engine and the sink plumbing that delivers it to consumers.
//
// A StepEvent is an immutable record of one atomic engine action, stamped
// with a logical order number rather than a wall clock. The stream of
// events for one run is its full audit trail: replaying the stream
// against a copy of the initial sequence reproduces the final sequence
// exactly, which is how the engine's completeness invariant is tested.
package event

import (
	"fmt"

	"github.com/opd-ai/sortvis/element"
)

// Kind discriminates the StepEvent variants.
type Kind uint8

const (
	// KindCompare records a comparison between the values at two indices.
	KindCompare Kind = iota
	// KindSetState records a visual-state change at one index.
	KindSetState
	// KindSwap records an exchange of the elements at two indices.
	KindSwap
	// KindOverwrite records a rebuild-style write of a source element
	// into a destination index.
	KindOverwrite
	// KindComplete records the successful end of a run. It is never
	// emitted for an aborted run.
	KindComplete
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindCompare:
		return "compare"
	case KindSetState:
		return "set-state"
	case KindSwap:
		return "swap"
	case KindOverwrite:
		return "overwrite"
	case KindComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// StepEvent is one atomic, ordered, observable engine action.
//
// Field usage by kind:
//
//	Compare    I, J   indices compared
//	SetState   I      index; State holds the new marker
//	Swap       I, J   indices exchanged
//	Overwrite  I      destination index; Source holds the written element
//	Complete   -      no fields beyond Order
type StepEvent struct {
	// Order is the logical position of this event in the run, starting
	// at zero and increasing by one per event with no gaps.
	Order uint64

	Kind   Kind
	I, J   int
	State  element.VisualState
	Source element.Element
}

// String renders a compact single-line description, used in logs and
// test failure output.
func (e StepEvent) String() string {
	switch e.Kind {
	case KindCompare:
		return fmt.Sprintf("#%d compare(%d,%d)", e.Order, e.I, e.J)
	case KindSetState:
		return fmt.Sprintf("#%d set-state(%d,%s)", e.Order, e.I, e.State)
	case KindSwap:
		return fmt.Sprintf("#%d swap(%d,%d)", e.Order, e.I, e.J)
	case KindOverwrite:
		return fmt.Sprintf("#%d overwrite(%d,%d)", e.Order, e.I, e.Source.Value)
	case KindComplete:
		return fmt.Sprintf("#%d complete", e.Order)
	default:
		return fmt.Sprintf("#%d unknown", e.Order)
	}
}

// Sink receives the event stream of a run. OnStep is called from the
// engine's goroutine in strict emission order; implementations must not
// drop or reorder events, or a downstream view of the working sequence
// desynchronizes from its true state.
type Sink interface {
	OnStep(ev StepEvent)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(ev StepEvent)

// OnStep calls f(ev).
func (f SinkFunc) OnStep(ev StepEvent) { f(ev) }

// Discard is a Sink that ignores every event. Running an algorithm with
// Discard and a zero-delay controller is the "pure sort" configuration;
// there is no separate uninstrumented code path.
var Discard Sink = SinkFunc(func(StepEvent) {})

// Fanout delivers each event to every registered sink in order.
type Fanout []Sink

// OnStep forwards ev to each sink in slice order.
func (f Fanout) OnStep(ev StepEvent) {
	for _, s := range f {
		s.OnStep(ev)
	}
}
