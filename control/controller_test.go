package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAwaitStepProceeds verifies an idle controller with zero delay
// proceeds immediately.
func TestAwaitStepProceeds(t *testing.T) {
	ctrl := New(0)
	require.NoError(t, ctrl.AwaitStep())
	require.NoError(t, ctrl.AwaitStep())
}

// TestAwaitStepHonorsDelay verifies the delay is applied and read live.
func TestAwaitStepHonorsDelay(t *testing.T) {
	ctrl := New(30 * time.Millisecond)

	start := time.Now()
	require.NoError(t, ctrl.AwaitStep())
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	ctrl.SetDelay(0)
	start = time.Now()
	require.NoError(t, ctrl.AwaitStep())
	assert.Less(t, time.Since(start), 20*time.Millisecond)
}

// TestPauseParksAndResumeReleases verifies a paused controller parks
// the caller until resumed.
func TestPauseParksAndResumeReleases(t *testing.T) {
	ctrl := New(0)
	ctrl.Pause()
	assert.True(t, ctrl.Paused())

	released := make(chan error, 1)
	go func() { released <- ctrl.AwaitStep() }()

	assert.Never(t, func() bool { return len(released) > 0 },
		50*time.Millisecond, 5*time.Millisecond, "suspension released while paused")

	ctrl.Resume()
	require.Eventually(t, func() bool { return len(released) == 1 },
		time.Second, time.Millisecond)
	assert.NoError(t, <-released)
	assert.False(t, ctrl.Paused())
}

// TestStepReleasesExactlyOne verifies single-step advances one parked
// suspension and re-arms the pause.
func TestStepReleasesExactlyOne(t *testing.T) {
	ctrl := New(0)
	ctrl.Pause()

	progress := make(chan struct{}, 8)
	go func() {
		for {
			if err := ctrl.AwaitStep(); err != nil {
				return
			}
			progress <- struct{}{}
		}
	}()

	ctrl.Step()
	require.Eventually(t, func() bool { return len(progress) == 1 },
		time.Second, time.Millisecond)
	assert.Never(t, func() bool { return len(progress) > 1 },
		50*time.Millisecond, 5*time.Millisecond, "step released more than one suspension")
	assert.True(t, ctrl.Paused())

	ctrl.Step()
	require.Eventually(t, func() bool { return len(progress) == 2 },
		time.Second, time.Millisecond)

	ctrl.Cancel()
}

// TestStepIgnoredWhileRunning verifies Step has no effect unless paused.
func TestStepIgnoredWhileRunning(t *testing.T) {
	ctrl := New(0)
	ctrl.Step()
	ctrl.Pause()

	released := make(chan error, 1)
	go func() { released <- ctrl.AwaitStep() }()

	assert.Never(t, func() bool { return len(released) > 0 },
		50*time.Millisecond, 5*time.Millisecond, "stray step released a suspension")
	ctrl.Resume()
	require.Eventually(t, func() bool { return len(released) == 1 },
		time.Second, time.Millisecond)
}

// TestCancelAbortsParked verifies cancellation wakes a parked
// suspension with ErrAborted.
func TestCancelAbortsParked(t *testing.T) {
	ctrl := New(0)
	ctrl.Pause()

	released := make(chan error, 1)
	go func() { released <- ctrl.AwaitStep() }()

	ctrl.Cancel()
	require.Eventually(t, func() bool { return len(released) == 1 },
		time.Second, time.Millisecond)
	assert.ErrorIs(t, <-released, ErrAborted)
}

// TestCancelAbortsSleepingDelay verifies cancellation cuts a long delay
// short instead of sleeping it out.
func TestCancelAbortsSleepingDelay(t *testing.T) {
	ctrl := New(10 * time.Second)

	released := make(chan error, 1)
	start := time.Now()
	go func() { released <- ctrl.AwaitStep() }()

	time.Sleep(20 * time.Millisecond)
	ctrl.Cancel()

	require.Eventually(t, func() bool { return len(released) == 1 },
		time.Second, time.Millisecond)
	assert.ErrorIs(t, <-released, ErrAborted)
	assert.Less(t, time.Since(start), 2*time.Second)
}

// TestCancelIdempotent verifies repeated cancellation is safe and all
// subsequent suspensions abort immediately.
func TestCancelIdempotent(t *testing.T) {
	ctrl := New(0)
	ctrl.Cancel()
	ctrl.Cancel()
	assert.True(t, ctrl.Cancelled())
	assert.ErrorIs(t, ctrl.AwaitStep(), ErrAborted)
	assert.ErrorIs(t, ctrl.AwaitDelay(time.Hour), ErrAborted)
}

// TestAwaitDelayExplicit verifies the explicit-delay suspension used by
// sweep pacing.
func TestAwaitDelayExplicit(t *testing.T) {
	ctrl := New(time.Hour)

	start := time.Now()
	require.NoError(t, ctrl.AwaitDelay(10*time.Millisecond))
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 10*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}
