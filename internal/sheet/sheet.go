// Package sheet implements the draggable pub-card bottom sheet as a pure state
// machine over abstract vertical units.
//
// Core pieces:
//   - Controller: owns the card position, the discrete state
//     (Hidden/Collapsed/Expanded), the active gesture session, and the settle
//     animation
//   - Claim predicates: ordered capture-phase arbitration between the outer
//     drag and the inner content scroll
//   - ScrollGate: tracks whether the inner content may scroll
//
// The controller is host-agnostic: it never reads the clock or schedules work.
// Hosts feed it gesture samples and drive Step from their own tick source,
// which keeps every transition deterministic under test.
package sheet

import (
	"math"
	"time"
)

// State is the card's discrete resting state. It changes only at gesture
// release or on an explicit show/close, never mid-drag.
type State int

const (
	// StateHidden parks the card fully off-screen; the subject is cleared.
	StateHidden State = iota
	// StateCollapsed rests the card at its peek height above the bottom edge.
	StateCollapsed
	// StateExpanded pins the card to the top inset, covering the screen.
	StateExpanded
)

func (s State) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StateCollapsed:
		return "collapsed"
	case StateExpanded:
		return "expanded"
	default:
		return "unknown"
	}
}

// Config holds the tuning constants for gesture handling and settle
// animations. The thresholds are carried over from the shipped product
// unchanged; treat them as calibration data, not derivable values.
type Config struct {
	// FlickVelocity is the release speed (units/ms) beyond which velocity
	// direction decides the snap target instead of proximity.
	FlickVelocity float64
	// RubberBand is the fraction of overflow applied when dragging past the
	// expanded or hidden boundary.
	RubberBand float64
	// MinDragFraction guards accidental dismissal: a slow release nearest the
	// hidden snap still collapses when the drag travelled less than this
	// fraction of the peek height.
	MinDragFraction float64
	// PeekFraction is the collapsed card height as a fraction of screen height.
	PeekFraction float64
	// TopInset is the expanded resting offset (safe area below the screen top).
	TopInset float64
	// ClaimSlop is the minimum movement (units) before any claim predicate
	// considers a touch a drag rather than a tap.
	ClaimSlop float64
	// AxisMargin scales |dx| when testing that a move is predominantly
	// vertical: the move claims only if |dy| > |dx|*AxisMargin.
	AxisMargin float64
	// SpringFrequency and SpringDamping shape the settle spring.
	SpringFrequency float64
	SpringDamping   float64
	// CloseDuration is the fixed length of the eased explicit-close animation.
	CloseDuration time.Duration
	// StepRate is the animation frame rate the host is expected to drive.
	StepRate int
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		FlickVelocity:   0.6,
		RubberBand:      0.3,
		MinDragFraction: 0.3,
		PeekFraction:    0.33,
		TopInset:        0,
		ClaimSlop:       4,
		AxisMargin:      1.2,
		SpringFrequency: 7.0,
		SpringDamping:   0.9,
		CloseDuration:   200 * time.Millisecond,
		StepRate:        60,
	}
}

// Outcome reports what a Step accomplished so the host can react.
type Outcome struct {
	// Settled is true when an animation reached its snap target this step.
	Settled bool
	// Closed is true when the card finished settling at Hidden. It is
	// reported exactly once per dismissal, never optimistically.
	Closed bool
}

// gestureSession exists only between drag start and drag end.
type gestureSession struct {
	origin  float64 // position captured at claim time
	tracker velocityTracker
}

// Controller owns the card's vertical position and discrete state.
// All methods must be called from a single goroutine; the host event loop
// provides that serialization.
type Controller struct {
	cfg Config

	screenHeight float64

	state State
	pos   float64

	session *gestureSession
	anim    animation

	// closePending defers the dismissal notification until the settle
	// animation reports completion.
	closePending bool
}

// New returns a controller resting at Hidden. Call SetScreenHeight before
// presenting; until then every snap point collapses to zero.
func New(cfg Config) *Controller {
	return &Controller{cfg: cfg, state: StateHidden}
}

// Config returns the tuning the controller was built with.
func (c *Controller) Config() Config { return c.cfg }

// State returns the discrete card state.
func (c *Controller) State() State { return c.state }

// Position returns the card's top edge offset in units from the screen top.
func (c *Controller) Position() float64 { return c.pos }

// Dragging reports whether a gesture session is active.
func (c *Controller) Dragging() bool { return c.session != nil }

// Animating reports whether a settle or close animation is in flight.
func (c *Controller) Animating() bool { return c.anim != nil }

// SetScreenHeight installs the screen extent in units and re-pins the card.
// When idle the position snaps to the current state's resting point; during a
// gesture or animation the in-flight value is left alone and the next settle
// uses the new geometry.
func (c *Controller) SetScreenHeight(h float64) {
	if h < 0 {
		h = 0
	}
	c.screenHeight = h
	if c.session == nil && c.anim == nil {
		c.pos = c.Snap(c.state)
	}
}

// ScreenHeight returns the configured screen extent in units.
func (c *Controller) ScreenHeight() float64 { return c.screenHeight }

// peek returns the collapsed card height in units.
func (c *Controller) peek() float64 {
	return c.screenHeight * c.cfg.PeekFraction
}

// Snap returns the resting position for a state.
func (c *Controller) Snap(s State) float64 {
	switch s {
	case StateExpanded:
		return c.cfg.TopInset
	case StateCollapsed:
		return c.screenHeight - c.peek()
	default:
		return c.screenHeight
	}
}

// slack is the hard bound on rubber-band overflow either side of the snap
// range. Overflow response is proportional below it and clamped at it.
func (c *Controller) slack() float64 {
	return c.cfg.RubberBand * c.screenHeight
}

// Present animates the card in after the subject became non-nil. From Hidden
// (or an interrupted dismissal) it springs to Collapsed; when the card is
// already visible only the content changes, so position and state are kept.
func (c *Controller) Present(now time.Time) {
	if c.state != StateHidden && !c.closePending {
		return
	}
	interrupted := c.anim != nil || c.session != nil
	c.closePending = false
	c.session = nil
	if c.screenHeight <= 0 {
		return
	}
	if !interrupted {
		c.pos = c.Snap(StateHidden)
	}
	c.state = StateCollapsed
	c.startSpring(now, c.Snap(StateCollapsed), 0)
}

// Dismiss runs the explicit close: a fixed-duration eased slide to Hidden.
// The dismissal notification fires from Step once the animation completes.
func (c *Controller) Dismiss(now time.Time) {
	if c.state == StateHidden && c.anim == nil && !c.closePending {
		return
	}
	c.session = nil
	c.state = StateHidden
	c.closePending = true
	c.anim = &easeAnimation{
		from:  c.pos,
		to:    c.Snap(StateHidden),
		start: now,
		dur:   c.cfg.CloseDuration,
	}
}

// SettleTo springs the card to a visible state's snap point outside any
// gesture, for host affordances like a keyboard expand. Dismissal goes
// through Dismiss instead, which owes the host a close notification.
func (c *Controller) SettleTo(now time.Time, s State) {
	if s == StateHidden || (c.state == StateHidden && !c.closePending) {
		return
	}
	c.session = nil
	c.closePending = false
	c.state = s
	c.startSpring(now, c.Snap(s), 0)
}

// DragStart opens a gesture session at the current (possibly mid-animation)
// position and cancels any in-flight animation, so only the finger drives the
// position from here.
func (c *Controller) DragStart(now time.Time) {
	c.anim = nil
	c.closePending = false
	c.session = &gestureSession{origin: c.pos}
	c.session.tracker.add(now, c.pos)
}

// DragMove applies the cumulative vertical delta since DragStart. Beyond the
// expanded and hidden boundaries only a fraction of the overflow is applied,
// clamped to the slack bound.
func (c *Controller) DragMove(now time.Time, delta float64) {
	s := c.session
	if s == nil {
		return
	}
	c.pos = c.rubberBand(s.origin + delta)
	s.tracker.add(now, c.pos)
}

// DragEnd closes the gesture session and picks the snap target:
//
//  1. Fast release: velocity direction wins. Upward goes to Expanded;
//     downward goes to Collapsed or Hidden depending on whether the drag
//     originated above or below the midpoint between those two snaps.
//  2. Slow release: nearest snap point, except that a near-Hidden release
//     whose total travel stayed under the minimum-drag guard collapses
//     instead of dismissing.
//
// The settle is a spring seeded with the release velocity.
func (c *Controller) DragEnd(now time.Time) {
	s := c.session
	if s == nil {
		return
	}
	c.session = nil
	vel := s.tracker.velocity(now)
	target := c.snapTarget(s, vel)
	c.state = target
	if target == StateHidden {
		c.closePending = true
	}
	c.startSpring(now, c.Snap(target), vel)
}

// DragCancel handles the input system revoking the gesture: the card springs
// back to the resting point of the state it held, instead of being left at a
// rubber-banded position.
func (c *Controller) DragCancel(now time.Time) {
	if c.session == nil {
		return
	}
	c.session = nil
	c.startSpring(now, c.Snap(c.state), 0)
}

// Step advances the active animation to now. The host calls this from its
// frame tick while Animating is true.
func (c *Controller) Step(now time.Time) Outcome {
	if c.anim == nil {
		return Outcome{}
	}
	pos, done := c.anim.step(now, c.cfg)
	c.pos = pos
	if !done {
		return Outcome{}
	}
	c.anim = nil
	c.pos = c.Snap(c.state)
	out := Outcome{Settled: true}
	if c.state == StateHidden && c.closePending {
		c.closePending = false
		out.Closed = true
	}
	return out
}

// snapTarget applies the two-tier release rule.
func (c *Controller) snapTarget(s *gestureSession, vel float64) State {
	if math.Abs(vel) >= c.cfg.FlickVelocity {
		if vel < 0 {
			return StateExpanded
		}
		mid := (c.Snap(StateCollapsed) + c.Snap(StateHidden)) / 2
		if s.origin < mid {
			return StateCollapsed
		}
		return StateHidden
	}

	target := c.nearestSnap()
	if target == StateHidden {
		travelled := math.Abs(c.pos - s.origin)
		if travelled < c.cfg.MinDragFraction*c.peek() {
			return StateCollapsed
		}
	}
	return target
}

// nearestSnap returns the state whose snap point is closest to the current
// position.
func (c *Controller) nearestSnap() State {
	best := StateHidden
	bestDist := math.Abs(c.pos - c.Snap(StateHidden))
	for _, s := range []State{StateCollapsed, StateExpanded} {
		if d := math.Abs(c.pos - c.Snap(s)); d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best
}

// rubberBand maps a raw drag position into the legal band with proportional
// resistance past either boundary.
func (c *Controller) rubberBand(raw float64) float64 {
	lo := c.Snap(StateExpanded)
	hi := c.Snap(StateHidden)
	slack := c.slack()
	switch {
	case raw < lo:
		over := (lo - raw) * c.cfg.RubberBand
		return lo - math.Min(over, slack)
	case raw > hi:
		over := (raw - hi) * c.cfg.RubberBand
		return hi + math.Min(over, slack)
	default:
		return raw
	}
}

// startSpring installs a settle spring toward target, seeding it with the
// release velocity in units/ms. Starting a new animation always replaces the
// previous one; position never has two writers.
func (c *Controller) startSpring(now time.Time, target, velPerMS float64) {
	c.anim = newSpringAnimation(now, c.cfg, c.pos, target, velPerMS)
}
