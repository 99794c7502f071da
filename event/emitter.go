package event

import "github.com/opd-ai/sortvis/element"

// Emitter stamps events with a monotonically increasing logical order
// number and forwards them to a sink. One Emitter instance covers one
// run, including the final sweep, so order numbers never restart or gap
// within a run.
//
// Emitter is not safe for concurrent use; the engine has exactly one
// writer per run.
type Emitter struct {
	sink Sink
	next uint64
}

// NewEmitter creates an emitter targeting sink. A nil sink falls back
// to Discard.
func NewEmitter(sink Sink) *Emitter {
	if sink == nil {
		sink = Discard
	}
	return &Emitter{sink: sink}
}

// Emitted returns the number of events emitted so far.
func (em *Emitter) Emitted() uint64 { return em.next }

func (em *Emitter) emit(ev StepEvent) {
	ev.Order = em.next
	em.next++
	em.sink.OnStep(ev)
}

// Compare emits a comparison of indices i and j.
func (em *Emitter) Compare(i, j int) {
	em.emit(StepEvent{Kind: KindCompare, I: i, J: j})
}

// SetState emits a visual-state change at index i.
func (em *Emitter) SetState(i int, state element.VisualState) {
	em.emit(StepEvent{Kind: KindSetState, I: i, State: state})
}

// Swap emits an exchange of indices i and j.
func (em *Emitter) Swap(i, j int) {
	em.emit(StepEvent{Kind: KindSwap, I: i, J: j})
}

// Overwrite emits a write of src into destination index i.
func (em *Emitter) Overwrite(i int, src element.Element) {
	em.emit(StepEvent{Kind: KindOverwrite, I: i, Source: src})
}

// Complete emits the terminal success event.
func (em *Emitter) Complete() {
	em.emit(StepEvent{Kind: KindComplete})
}
