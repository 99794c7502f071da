// Package control implements the cooperative suspension primitive shared
// by every sorting algorithm.
//
// A Controller provides exactly one blocking call, AwaitStep, which the
// engine invokes at every checkpoint (at minimum once per comparison).
// Speed throttling, pause, single-step, and cancellation are all
// implemented behind that single call, so no algorithm carries its own
// control flow and cancellation latency is bounded by the interval
// between two consecutive checkpoints.
//
// A Controller serves one run. Cancel is terminal; the facade creates a
// fresh controller for each run rather than re-arming a cancelled one.
package control

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrAborted is returned by AwaitStep once cancellation has been
// requested. It is a recognized terminal outcome of a run, not a
// failure; callers stop at the current checkpoint and perform no
// further mutation.
var ErrAborted = errors.New("sort aborted")

// Controller gates the engine's checkpoints.
type Controller struct {
	mu   sync.Mutex
	cond *sync.Cond

	paused    bool
	stepOnce  bool
	cancelled bool

	// done is closed on Cancel so a suspension sleeping out its delay
	// wakes immediately instead of finishing the timer.
	done chan struct{}

	// delay is the per-step delay in nanoseconds, read live at each
	// suspension. Changes apply to the next suspension, never
	// retroactively.
	delay atomic.Int64
}

// New creates a controller with the given initial per-step delay.
func New(delay time.Duration) *Controller {
	c := &Controller{done: make(chan struct{})}
	c.cond = sync.NewCond(&c.mu)
	c.delay.Store(int64(delay))
	return c
}

// SetDelay updates the per-step delay. Safe for concurrent use; the
// change is observed at the next suspension.
func (c *Controller) SetDelay(d time.Duration) {
	c.delay.Store(int64(d))
}

// Delay returns the current per-step delay.
func (c *Controller) Delay() time.Duration {
	return time.Duration(c.delay.Load())
}

// Paused reports whether the controller is currently paused.
func (c *Controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Cancelled reports whether cancellation has been requested.
func (c *Controller) Cancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelled
}

// Pause parks the next suspension until Resume or Step. Pausing an
// already-paused controller is a no-op.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused || c.cancelled {
		return
	}
	c.paused = true
	logrus.WithFields(logrus.Fields{
		"function": "Controller.Pause",
	}).Debug("Execution paused")
}

// Resume clears the pause flag and wakes any parked suspension.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.paused = false
	c.stepOnce = false
	c.cond.Broadcast()
	logrus.WithFields(logrus.Fields{
		"function": "Controller.Resume",
	}).Debug("Execution resumed")
}

// Step releases exactly one parked suspension while leaving the pause
// flag armed, advancing the run by a single checkpoint. It has no
// effect unless the controller is paused.
func (c *Controller) Step() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused || c.cancelled {
		return
	}
	c.stepOnce = true
	c.cond.Broadcast()
}

// Cancel requests cooperative abort. Idempotent; all parked and future
// AwaitStep calls return ErrAborted.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelled {
		return
	}
	c.cancelled = true
	close(c.done)
	c.cond.Broadcast()
	logrus.WithFields(logrus.Fields{
		"function": "Controller.Cancel",
	}).Debug("Cancellation requested")
}

// AwaitStep suspends the calling run for one checkpoint using the
// controller's current delay. It returns nil to proceed or ErrAborted
// once cancellation has been requested.
func (c *Controller) AwaitStep() error {
	return c.AwaitDelay(c.Delay())
}

// AwaitDelay is AwaitStep with an explicit delay, used by pacing
// policies that compute their own per-step interval (the final sweep's
// clamped delay). Behavior:
//
//   - cancelled: returns ErrAborted immediately, before any sleep.
//   - paused: parks until Resume or Step. A Step release skips the
//     delay so single-stepping advances without waiting.
//   - otherwise: sleeps for delay, waking early on Cancel. A Pause
//     raised during the sleep is observed at the next suspension.
func (c *Controller) AwaitDelay(delay time.Duration) error {
	c.mu.Lock()
	for {
		if c.cancelled {
			c.mu.Unlock()
			return ErrAborted
		}
		if c.stepOnce {
			c.stepOnce = false
			c.mu.Unlock()
			return nil
		}
		if !c.paused {
			break
		}
		c.cond.Wait()
	}
	c.mu.Unlock()

	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-c.done:
		return ErrAborted
	}
}
