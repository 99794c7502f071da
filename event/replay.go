package event

import (
	"fmt"

	"github.com/opd-ai/sortvis/element"
)

// Recorder is a Sink that retains every event it receives, in order.
// It is safe to read after the run producing into it has terminated;
// it performs no internal locking because the engine has a single
// writer and readers inspect it only once emission has stopped.
type Recorder struct {
	events []StepEvent
}

// OnStep appends ev to the recording.
func (r *Recorder) OnStep(ev StepEvent) {
	r.events = append(r.events, ev)
}

// Events returns the recorded stream in emission order. The returned
// slice is the recorder's backing store; callers must not mutate it.
func (r *Recorder) Events() []StepEvent {
	return r.events
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int { return len(r.events) }

// Replay applies a recorded event stream to a copy of the initial
// sequence and returns the resulting sequence. Compare and Complete
// events carry no state change; SetState, Swap, and Overwrite are
// applied exactly as the engine performed them.
//
// Replay and live execution share the same mutation vocabulary, so a
// stream that replays to the engine's final sequence proves no event
// was lost or reordered.
func Replay(initial element.Sequence, events []StepEvent) (element.Sequence, error) {
	seq := initial.Clone()
	for _, ev := range events {
		switch ev.Kind {
		case KindCompare, KindComplete:
			// Observational only.
		case KindSetState:
			if ev.I < 0 || ev.I >= len(seq) {
				return nil, fmt.Errorf("replay: set-state index %d out of range [0,%d)", ev.I, len(seq))
			}
			seq[ev.I].State = ev.State
		case KindSwap:
			if ev.I < 0 || ev.I >= len(seq) || ev.J < 0 || ev.J >= len(seq) {
				return nil, fmt.Errorf("replay: swap indices (%d,%d) out of range [0,%d)", ev.I, ev.J, len(seq))
			}
			seq[ev.I], seq[ev.J] = seq[ev.J], seq[ev.I]
		case KindOverwrite:
			if ev.I < 0 || ev.I >= len(seq) {
				return nil, fmt.Errorf("replay: overwrite index %d out of range [0,%d)", ev.I, len(seq))
			}
			state := seq[ev.I].State
			seq[ev.I] = ev.Source
			seq[ev.I].State = state
		default:
			return nil, fmt.Errorf("replay: unknown event kind %d", ev.Kind)
		}
	}
	return seq, nil
}
