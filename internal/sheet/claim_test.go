package sheet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollapsedClaimsVerticalMoves(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	presentCollapsed(t, c)

	require.True(t, c.ClaimsMove(MoveSample{DX: 1, DY: 10}, false))
	require.True(t, c.ClaimsMove(MoveSample{DX: 0, DY: -10}, false))

	// Below the slop threshold a touch is still a tap.
	require.False(t, c.ClaimsMove(MoveSample{DX: 0, DY: 3}, false))

	// Mostly-horizontal moves belong to whatever is underneath.
	require.False(t, c.ClaimsMove(MoveSample{DX: 9, DY: 10}, false))
	require.True(t, c.ClaimsMove(MoveSample{DX: 8, DY: 10}, false))

	// While collapsed the content cannot scroll, so the gate is irrelevant.
	require.True(t, c.ClaimsMove(MoveSample{DY: 10}, true))
}

func TestExpandedClaimsPullDownOnlyAtTop(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)
	flickExpand(t, c, now)

	// Content at its top boundary: the sheet takes a downward pull.
	require.True(t, c.ClaimsMove(MoveSample{DY: 10}, false))

	// Content scrolled down: the pull scrolls the content instead.
	require.False(t, c.ClaimsMove(MoveSample{DY: 10}, true))

	// Upward moves always scroll the content.
	require.False(t, c.ClaimsMove(MoveSample{DY: -10}, false))

	require.False(t, c.ClaimsMove(MoveSample{DY: 2}, false))
}

func TestHiddenNeverClaims(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	require.False(t, c.ClaimsMove(MoveSample{DY: 50}, false))
	require.False(t, c.ClaimsMove(MoveSample{DY: -50}, false))
}

func TestActiveSessionKeepsClaim(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)
	c.DragStart(now)

	// Once a gesture is in progress the sheet keeps it no matter how the
	// pointer wanders.
	require.True(t, c.ClaimsMove(MoveSample{DX: 50, DY: 0}, false))
	require.True(t, c.ClaimsMove(MoveSample{DY: 1}, true))
}

func TestScrolledExpandedCardIgnoresDrags(t *testing.T) {
	t.Parallel()

	c := newTestController(t)
	now := presentCollapsed(t, c)
	flickExpand(t, c, now)

	var gate ScrollGate
	gate.Note(StateExpanded, 12)
	require.True(t, gate.Open())

	// This is exactly what the host does per move: ask the sheet first,
	// and only route the gesture to it when claimed. With the content
	// scrolled, none of these pulls may move the card.
	pos := c.Position()
	for _, m := range []MoveSample{{DY: 30}, {DY: 80}, {DY: 400}} {
		require.False(t, c.ClaimsMove(m, gate.Open()))
	}
	require.Equal(t, StateExpanded, c.State())
	require.Equal(t, pos, c.Position())
}

func TestScrollGateTracksOffsetAndState(t *testing.T) {
	t.Parallel()

	var g ScrollGate
	require.False(t, g.Open())

	g.Note(StateExpanded, 5)
	require.True(t, g.Open())

	g.Note(StateExpanded, 0)
	require.False(t, g.Open())

	g.Note(StateCollapsed, 9)
	require.False(t, g.Open())

	g.Note(StateExpanded, 3)
	g.Close()
	require.False(t, g.Open())
}
