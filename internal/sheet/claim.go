package sheet

import "math"

// MoveSample is the cumulative pointer travel since touch-down, in units,
// measured before any claim decision has been made.
type MoveSample struct {
	DX float64
	DY float64
}

// claimPredicate decides whether the outer sheet takes a move gesture.
// Predicates run in claimOrder, outward-in, during the capture phase: the
// sheet gets first refusal before the inner scrollable sees the touch.
type claimPredicate struct {
	name string
	test func(c *Controller, m MoveSample, gateOpen bool) bool
}

var claimOrder = []claimPredicate{
	// A collapsed card owns any predominantly-vertical move. The inner
	// content never scrolls while collapsed, so there is nothing to yield to.
	{name: "collapsed-vertical", test: func(c *Controller, m MoveSample, _ bool) bool {
		if c.state != StateCollapsed {
			return false
		}
		return math.Abs(m.DY) > c.cfg.ClaimSlop && math.Abs(m.DY) > math.Abs(m.DX)*c.cfg.AxisMargin
	}},
	// An expanded card whose content sits at its top boundary (gate closed)
	// owns a downward pull; with the gate open the content keeps the touch.
	{name: "expanded-pull-down", test: func(c *Controller, m MoveSample, gateOpen bool) bool {
		if c.state != StateExpanded || gateOpen {
			return false
		}
		return m.DY > c.cfg.ClaimSlop
	}},
}

// ClaimsMove reports whether the sheet takes the touch for the given move.
// A true result means the host should call DragStart and route subsequent
// motion to the controller; false leaves the touch to the inner content.
func (c *Controller) ClaimsMove(m MoveSample, gateOpen bool) bool {
	if c.session != nil {
		return true
	}
	for _, p := range claimOrder {
		if p.test(c, m, gateOpen) {
			return true
		}
	}
	return false
}
