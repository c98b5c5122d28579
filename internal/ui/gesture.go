package ui

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"snug/internal/sheet"
)

// Terminal cells are coarse next to the touch points the sheet thresholds
// were tuned against, so sheet geometry runs in sub-cell units: one row is
// unitsPerRow units. Columns count half that, matching the roughly 2:1
// height-to-width aspect of a cell, so the axis-dominance test keeps meaning
// "mostly vertical" on screen.
const (
	unitsPerRow = 18.0
	unitsPerCol = 9.0
)

// wheelRows is how many content rows one wheel notch scrolls.
const wheelRows = 3

func rowsToUnits(rows int) float64 { return float64(rows) * unitsPerRow }

func unitsToRow(pos float64) int { return int(math.Round(pos / unitsPerRow)) }

// touchState follows one mouse press from button-down to release. Motion
// accumulates unclaimed until a claim predicate takes the gesture; from then
// on every sample feeds the drag session.
type touchState struct {
	originX int
	originY int
	claimed bool
}

// sample converts the cumulative cell travel since button-down into sheet
// units, measured before any claim decision.
func (t *touchState) sample(x, y int) sheet.MoveSample {
	return sheet.MoveSample{
		DX: float64(x-t.originX) * unitsPerCol,
		DY: float64(y-t.originY) * unitsPerRow,
	}
}

// HandleMouse folds one mouse event into the gesture machinery. While the
// card is up it captures the whole content area, so drags that begin over
// the browse list still move the sheet. The returned command is non-nil when
// the event started an animation that needs the frame loop running.
func (v *PubCardView) HandleMouse(msg tea.MouseMsg, now time.Time) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			v.touch = &touchState{originX: msg.X, originY: msg.Y}
		case tea.MouseButtonWheelUp:
			v.scrollContent(-wheelRows)
		case tea.MouseButtonWheelDown:
			v.scrollContent(wheelRows)
		}
	case tea.MouseActionMotion:
		v.touchMove(msg, now)
	case tea.MouseActionRelease:
		return v.touchUp(now)
	}
	return nil
}

// touchMove runs the capture-phase arbitration on the first qualifying move
// and routes motion to the controller once the sheet owns the touch.
func (v *PubCardView) touchMove(msg tea.MouseMsg, now time.Time) {
	t := v.touch
	if t == nil {
		return
	}
	m := t.sample(msg.X, msg.Y)
	if !t.claimed {
		if !v.ctrl.ClaimsMove(m, v.gate.Open()) {
			return
		}
		t.claimed = true
		v.ctrl.DragStart(now)
	}
	v.ctrl.DragMove(now, m.DY)
}

// touchUp releases the gesture. A claimed touch ends the drag session and
// starts the settle animation; an unclaimed one was a tap and changes
// nothing.
func (v *PubCardView) touchUp(now time.Time) tea.Cmd {
	t := v.touch
	v.touch = nil
	if t == nil || !t.claimed {
		return nil
	}
	v.ctrl.DragEnd(now)
	v.gate.Note(v.ctrl.State(), v.content.YOffset)
	return v.ensureTick()
}

// CancelTouch aborts an in-flight gesture, e.g. when the terminal loses
// focus mid-drag, and springs the card back to its resting state.
func (v *PubCardView) CancelTouch(now time.Time) tea.Cmd {
	t := v.touch
	v.touch = nil
	if t == nil || !t.claimed {
		return nil
	}
	v.ctrl.DragCancel(now)
	return v.ensureTick()
}

// scrollContent moves the expanded content viewport and reports the
// resulting offset to the scroll gate. Scroll input while collapsed is
// swallowed: that content never scrolls.
func (v *PubCardView) scrollContent(rows int) {
	if v.ctrl.State() != sheet.StateExpanded || v.ctrl.Dragging() {
		return
	}
	if rows < 0 {
		v.content.LineUp(-rows)
	} else {
		v.content.LineDown(rows)
	}
	v.gate.Note(v.ctrl.State(), v.content.YOffset)
}
