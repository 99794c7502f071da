package engine

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/sortvis/control"
	"github.com/opd-ai/sortvis/element"
	"github.com/opd-ai/sortvis/event"
)

// Final-sweep pacing. The per-element delay is the total budget divided
// by the sequence length, clamped to the floor and ceiling, so the
// confirmation scan takes about the same wall time at any n.
const (
	sweepTotalBudget = 1200 * time.Millisecond
	sweepDelayFloor  = 2 * time.Millisecond
	sweepDelayCeil   = 50 * time.Millisecond
)

// SweepDelay returns the clamped per-element delay for a sweep over n
// elements.
func SweepDelay(n int) time.Duration {
	if n <= 0 {
		return sweepDelayCeil
	}
	d := sweepTotalBudget / time.Duration(n)
	if d < sweepDelayFloor {
		return sweepDelayFloor
	}
	if d > sweepDelayCeil {
		return sweepDelayCeil
	}
	return d
}

// FinalSweep performs the post-completion confirmation scan: a purely
// observational left-to-right pass pulsing each element through
// comparing back to sorted. Values are never touched. The emitter
// should be the one the run used, so order numbering continues across
// the sweep.
//
// A cancellation during the sweep returns control.ErrAborted; the
// sequence remains fully sorted either way.
func FinalSweep(seq element.Sequence, ctrl *control.Controller, em *event.Emitter) error {
	if ctrl == nil {
		ctrl = control.New(0)
	}
	delay := SweepDelay(len(seq))

	logrus.WithFields(logrus.Fields{
		"function": "FinalSweep",
		"count":    len(seq),
		"delay":    delay,
	}).Debug("Starting final sweep")

	for i := range seq {
		seq[i].State = element.StateComparing
		em.SetState(i, element.StateComparing)
		if err := ctrl.AwaitDelay(delay); err != nil {
			return err
		}
		seq[i].State = element.StateSorted
		em.SetState(i, element.StateSorted)
	}
	return nil
}
