package sheet

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testHeight = 1000.0

// With the default config and a 1000-unit screen the snap points sit at
// 0 (expanded), 670 (collapsed) and 1000 (hidden), the collapsed/hidden
// midpoint at 835, and the minimum-drag guard at 99 units.

func newTestController(t *testing.T) *Controller {
	t.Helper()
	c := New(DefaultConfig())
	c.SetScreenHeight(testHeight)
	return c
}

// settle pumps Step at the configured frame rate until the active animation
// reports completion, failing the test if it never does.
func settle(t *testing.T, c *Controller, now time.Time) (time.Time, Outcome) {
	t.Helper()
	frame := time.Second / time.Duration(c.Config().StepRate)
	for i := 0; i < 600; i++ {
		now = now.Add(frame)
		if out := c.Step(now); out.Settled {
			return now, out
		}
	}
	t.Fatalf("animation still running after 600 frames, pos=%v state=%v", c.Position(), c.State())
	return now, Outcome{}
}

// drag replays a gesture: DragStart at now, then the cumulative deltas
// spaced dt apart. The release is left to the caller.
func drag(c *Controller, now time.Time, dt time.Duration, deltas ...float64) time.Time {
	c.DragStart(now)
	for _, d := range deltas {
		now = now.Add(dt)
		c.DragMove(now, d)
	}
	return now
}

// presentCollapsed shows the card and waits for it to rest at the peek.
func presentCollapsed(t *testing.T, c *Controller) time.Time {
	t.Helper()
	now := time.Unix(0, 0)
	c.Present(now)
	now, _ = settle(t, c, now)
	return now
}

// flickExpand drives a fast upward flick and waits for the expanded rest.
func flickExpand(t *testing.T, c *Controller, now time.Time) time.Time {
	t.Helper()
	now = drag(c, now, 10*time.Millisecond, -15, -30, -45, -60, -75)
	c.DragEnd(now)
	require.Equal(t, StateExpanded, c.State())
	now, _ = settle(t, c, now)
	return now
}

// closePartway dismisses the card and steps the close animation until the
// card has fallen past minPos, leaving the slide in flight so a test can
// grab it mid-close.
func closePartway(t *testing.T, c *Controller, now time.Time, minPos float64) time.Time {
	t.Helper()
	c.Dismiss(now)
	frame := time.Second / time.Duration(c.Config().StepRate)
	for c.Position() < minPos {
		now = now.Add(frame)
		if out := c.Step(now); out.Settled {
			t.Fatalf("close finished before the card passed %v", minPos)
		}
	}
	return now
}

func TestSnapGeometry(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	require.Equal(t, 0.0, c.Snap(StateExpanded))
	require.InDelta(t, 670.0, c.Snap(StateCollapsed), 1e-9)
	require.Equal(t, testHeight, c.Snap(StateHidden))

	// A fresh controller rests parked off-screen.
	require.Equal(t, StateHidden, c.State())
	require.Equal(t, testHeight, c.Position())
	require.False(t, c.Dragging())
	require.False(t, c.Animating())
}

func TestPresentSettlesAtPeek(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := time.Unix(0, 0)
	c.Present(now)
	require.Equal(t, StateCollapsed, c.State())
	require.True(t, c.Animating())

	_, out := settle(t, c, now)
	require.True(t, out.Settled)
	require.False(t, out.Closed)
	require.Equal(t, c.Snap(StateCollapsed), c.Position())
	require.False(t, c.Animating())
}

func TestPresentBeforeSizeWaitsForGeometry(t *testing.T) {
	t.Parallel()

	c := New(DefaultConfig())
	now := time.Unix(0, 0)
	c.Present(now)
	require.Equal(t, StateHidden, c.State())
	require.False(t, c.Animating())

	c.SetScreenHeight(testHeight)
	c.Present(now)
	require.Equal(t, StateCollapsed, c.State())
	settle(t, c, now)
}

func TestPresentWhileVisibleKeepsPosition(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)

	c.Present(now)
	require.False(t, c.Animating())
	require.Equal(t, StateCollapsed, c.State())
	require.Equal(t, c.Snap(StateCollapsed), c.Position())
}

func TestDismissClosesExactlyOnceAfterSettle(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)

	c.Dismiss(now)
	require.Equal(t, StateHidden, c.State())
	require.True(t, c.Animating())

	// The callback must not fire while the slide is still in flight.
	frame := time.Second / time.Duration(c.Config().StepRate)
	now = now.Add(frame)
	out := c.Step(now)
	require.False(t, out.Settled)
	require.False(t, out.Closed)

	now, out = settle(t, c, now)
	require.True(t, out.Closed)
	require.Equal(t, c.Snap(StateHidden), c.Position())

	// Exactly once: later steps report nothing.
	require.Equal(t, Outcome{}, c.Step(now.Add(time.Second)))
}

func TestDismissWhileHiddenIsNoop(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := time.Unix(0, 0)
	c.Dismiss(now)
	require.False(t, c.Animating())
	require.Equal(t, Outcome{}, c.Step(now.Add(time.Second)))
}

func TestPresentInterruptsDismissal(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)

	c.Dismiss(now)
	frame := time.Second / time.Duration(c.Config().StepRate)
	for i := 0; i < 3; i++ {
		now = now.Add(frame)
		c.Step(now)
	}
	midClose := c.Position()
	require.Greater(t, midClose, c.Snap(StateCollapsed))

	// Subject set again while the close is in flight: the card turns around
	// from wherever it is, and the interrupted dismissal never reports.
	c.Present(now)
	require.Equal(t, StateCollapsed, c.State())
	require.Equal(t, midClose, c.Position())

	now, out := settle(t, c, now)
	require.False(t, out.Closed)
	require.Equal(t, c.Snap(StateCollapsed), c.Position())
	require.Equal(t, Outcome{}, c.Step(now.Add(time.Second)))
}

func TestCatchDuringCloseSuppressesCallback(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)

	now = closePartway(t, c, now, 800)
	require.True(t, c.Animating())

	// Grabbing mid-close cancels the slide and defuses the pending
	// dismissal notification; fling the card back open.
	now = drag(c, now, 10*time.Millisecond, -15, -30, -45, -60, -75)
	require.False(t, c.Animating())
	c.DragEnd(now)
	require.Equal(t, StateExpanded, c.State())
	_, out := settle(t, c, now)
	require.True(t, out.Settled)
	require.False(t, out.Closed)
}

func TestDragOverflowRubberBands(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)

	c.DragStart(now)

	// 500 units past the expanded boundary compresses to 30%.
	c.DragMove(now.Add(10*time.Millisecond), -(c.Snap(StateCollapsed) + 500))
	require.InDelta(t, -150, c.Position(), 1e-9)

	// Far past the boundary the overflow clamps at the slack bound.
	c.DragMove(now.Add(20*time.Millisecond), -(c.Snap(StateCollapsed) + 5000))
	require.InDelta(t, -c.slack(), c.Position(), 1e-9)

	// Same response below the hidden boundary.
	c.DragMove(now.Add(30*time.Millisecond), 330+500)
	require.InDelta(t, testHeight+150, c.Position(), 1e-9)
	c.DragMove(now.Add(40*time.Millisecond), 330+5000)
	require.InDelta(t, testHeight+c.slack(), c.Position(), 1e-9)

	// Inside the band the position follows the finger exactly.
	c.DragMove(now.Add(50*time.Millisecond), -100)
	require.InDelta(t, c.Snap(StateCollapsed)-100, c.Position(), 1e-9)
}

func TestDragPositionStaysWithinSlackBounds(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)

	rng := rand.New(rand.NewSource(1))
	c.DragStart(now)
	lo := c.Snap(StateExpanded) - c.slack()
	hi := c.Snap(StateHidden) + c.slack()
	delta := 0.0
	for i := 0; i < 500; i++ {
		delta += (rng.Float64() - 0.5) * 400
		now = now.Add(5 * time.Millisecond)
		c.DragMove(now, delta)
		require.GreaterOrEqual(t, c.Position(), lo)
		require.LessOrEqual(t, c.Position(), hi)
	}
}

func TestFastUpwardFlickExpands(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)

	now = drag(c, now, 10*time.Millisecond, -15, -30, -45, -60, -75)
	c.DragEnd(now)
	require.Equal(t, StateExpanded, c.State())

	_, out := settle(t, c, now)
	require.True(t, out.Settled)
	require.Equal(t, c.Snap(StateExpanded), c.Position())
}

func TestFastUpwardFlickExpandsRegardlessOfPosition(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)

	// Release at 640, well inside collapsed territory, but moving fast.
	now = drag(c, now, 10*time.Millisecond, -10, -20, -30)
	c.DragEnd(now)
	require.Equal(t, StateExpanded, c.State())
	settle(t, c, now)
	require.Equal(t, c.Snap(StateExpanded), c.Position())
}

func TestFastDownwardFlickFromTopCollapses(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)
	now = flickExpand(t, c, now)

	// The drag originates at the top, far above the collapsed/hidden
	// midpoint, so a hard downward flick stops at the peek.
	now = drag(c, now, 10*time.Millisecond, 15, 30, 45, 60, 75)
	c.DragEnd(now)
	require.Equal(t, StateCollapsed, c.State())
	settle(t, c, now)
	require.Equal(t, c.Snap(StateCollapsed), c.Position())
}

func TestFastDownwardFlickNearBottomDismisses(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)

	// Grab the card below the collapsed/hidden midpoint and swat it down.
	now = closePartway(t, c, now, 900)
	now = drag(c, now, 10*time.Millisecond, 15, 30)
	c.DragEnd(now)
	require.Equal(t, StateHidden, c.State())

	now, out := settle(t, c, now)
	require.True(t, out.Closed)
	require.Equal(t, c.Snap(StateHidden), c.Position())
	require.Equal(t, Outcome{}, c.Step(now.Add(time.Second)))
}

func TestSlowReleaseSnapsToNearest(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)

	// Creep up to 265: nearest snap is expanded (265 vs 405 to collapsed),
	// and every individual step is far too slow for the flick rule.
	deltas := make([]float64, 27)
	for i := range deltas {
		deltas[i] = float64(i+1) * -15
	}
	now = drag(c, now, 50*time.Millisecond, deltas...)
	c.DragEnd(now)
	require.Equal(t, StateExpanded, c.State())
	settle(t, c, now)
	require.Equal(t, c.Snap(StateExpanded), c.Position())
}

func TestSlowShortDragNearHiddenCollapses(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)

	// Catch the closing card near the bottom and nudge it down a touch.
	// Nearest snap is hidden, but the travel is far below the guard, so the
	// release must not dismiss.
	now = closePartway(t, c, now, 900)
	now = drag(c, now, 50*time.Millisecond, 5, 10)
	c.DragEnd(now)
	require.Equal(t, StateCollapsed, c.State())

	_, out := settle(t, c, now)
	require.True(t, out.Settled)
	require.False(t, out.Closed)
	require.Equal(t, c.Snap(StateCollapsed), c.Position())
}

func TestSlowFarDragDismisses(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)

	// 260 units of slow downward travel from the peek ends nearest hidden
	// and well past the minimum-drag guard.
	deltas := make([]float64, 13)
	for i := range deltas {
		deltas[i] = float64(i+1) * 20
	}
	now = drag(c, now, 50*time.Millisecond, deltas...)
	c.DragEnd(now)
	require.Equal(t, StateHidden, c.State())

	now, out := settle(t, c, now)
	require.True(t, out.Closed)
	require.Equal(t, Outcome{}, c.Step(now.Add(time.Second)))
}

func TestNewGestureCancelsSettle(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := time.Unix(0, 0)
	c.Present(now)

	frame := time.Second / time.Duration(c.Config().StepRate)
	for i := 0; i < 3; i++ {
		now = now.Add(frame)
		c.Step(now)
	}
	require.True(t, c.Animating())
	mid := c.Position()

	// The finger takes over: the spring is gone and position freezes until
	// the next move sample.
	c.DragStart(now)
	require.False(t, c.Animating())
	require.True(t, c.Dragging())
	require.Equal(t, Outcome{}, c.Step(now.Add(frame)))
	require.Equal(t, mid, c.Position())

	c.DragMove(now.Add(20*time.Millisecond), 10)
	require.InDelta(t, mid+10, c.Position(), 1e-9)
}

func TestDragCancelSpringsBack(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)

	c.DragStart(now)
	c.DragMove(now.Add(10*time.Millisecond), 120)
	require.InDelta(t, c.Snap(StateCollapsed)+120, c.Position(), 1e-9)

	c.DragCancel(now.Add(20 * time.Millisecond))
	require.False(t, c.Dragging())
	require.Equal(t, StateCollapsed, c.State())

	_, out := settle(t, c, now.Add(20*time.Millisecond))
	require.True(t, out.Settled)
	require.False(t, out.Closed)
	require.Equal(t, c.Snap(StateCollapsed), c.Position())
}

func TestResizeRepinsOnlyWhenIdle(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)

	c.SetScreenHeight(600)
	require.InDelta(t, 600-600*c.Config().PeekFraction, c.Position(), 1e-9)
	require.Equal(t, StateCollapsed, c.State())

	// Mid-gesture the in-flight position is left alone; the new geometry
	// only applies at the next settle.
	c.DragStart(now)
	c.DragMove(now.Add(10*time.Millisecond), 50)
	held := c.Position()
	c.SetScreenHeight(1200)
	require.Equal(t, held, c.Position())
	require.Equal(t, 1200.0, c.ScreenHeight())

	c.DragEnd(now.Add(200 * time.Millisecond))
	require.Equal(t, StateCollapsed, c.State())
	settle(t, c, now.Add(200*time.Millisecond))
	require.Equal(t, c.Snap(StateCollapsed), c.Position())
}

func TestGestureCallsWithoutSessionAreNoops(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)
	pos := c.Position()

	c.DragMove(now, 50)
	require.Equal(t, pos, c.Position())
	c.DragEnd(now)
	require.Equal(t, StateCollapsed, c.State())
	require.False(t, c.Animating())
	c.DragCancel(now)
	require.False(t, c.Animating())
}
