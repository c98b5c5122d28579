package sheet

// ScrollGate arbitrates touch ownership between the inner content scroll and
// the outer drag. Open means the content may scroll; closed hands priority to
// the sheet. The gate is forced closed whenever the content sits at its top
// boundary while expanded, and unconditionally closed in every other state,
// since a collapsed card's content never scrolls.
type ScrollGate struct {
	open bool
}

// Note records a content scroll event: the card state at the time and the
// content's vertical scroll offset.
func (g *ScrollGate) Note(state State, offset int) {
	g.open = state == StateExpanded && offset > 0
}

// Close forces the gate shut, for state changes that bypass scroll events
// (collapse, dismissal).
func (g *ScrollGate) Close() {
	g.open = false
}

// Open reports whether the inner content currently owns scrolling.
func (g *ScrollGate) Open() bool { return g.open }
