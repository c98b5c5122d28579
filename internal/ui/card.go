package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"snug/internal/api"
	"snug/internal/geo"
	"snug/internal/sheet"
)

// chromeRows is the fixed card header: top edge, title, meta or action row,
// separator. Everything below it belongs to the detail viewport.
const chromeRows = 4

// PubCardView is the draggable bottom-sheet pub card. It owns the gesture
// controller, the scroll gate, and the detail viewport; the app composites
// its render over the browse list and forwards mouse, key, and tick traffic
// while a subject is set.
type PubCardView struct {
	ctrl    *sheet.Controller
	gate    *sheet.ScrollGate
	content viewport.Model
	keys    KeyMap

	pub    api.Pub
	hasPub bool
	stats  *api.ProfileStats
	home   geo.Point

	touch   *touchState
	ticking bool

	width int
	rows  int // canvas rows the card may cover
}

// NewPubCardView returns a card resting hidden. Show installs a subject and
// animates it in.
func NewPubCardView(home geo.Point, keys KeyMap) *PubCardView {
	return &PubCardView{
		ctrl:    sheet.New(sheet.DefaultConfig()),
		gate:    &sheet.ScrollGate{},
		content: viewport.New(0, 0),
		keys:    keys,
		home:    home,
	}
}

// SetSize installs the canvas the card slides over: the app's content area,
// excluding the status footer.
func (v *PubCardView) SetSize(width, rows int) {
	v.width = width
	v.rows = rows
	v.ctrl.SetScreenHeight(rowsToUnits(rows))
	v.content.Width = v.innerWidth()
	h := rows - chromeRows
	if h < 0 {
		h = 0
	}
	v.content.Height = h
	v.renderContent()
}

// Show makes pub the card's subject. From hidden the card springs up to its
// peek; when the card is already up only the content swaps.
func (v *PubCardView) Show(pub api.Pub, now time.Time) tea.Cmd {
	v.pub = pub
	v.hasPub = true
	v.renderContent()
	v.content.GotoTop()
	v.gate.Close()
	v.ctrl.Present(now)
	return v.ensureTick()
}

// Close starts the explicit dismissal. CardClosedMsg follows from the tick
// loop once the slide-out settles, never before.
func (v *PubCardView) Close(now time.Time) tea.Cmd {
	v.ctrl.Dismiss(now)
	v.gate.Close()
	return v.ensureTick()
}

// Active reports whether the card owns keyboard and mouse input.
func (v *PubCardView) Active() bool { return v.hasPub }

// Expanded reports whether the card is resting at (or settling toward) its
// expanded snap.
func (v *PubCardView) Expanded() bool { return v.ctrl.State() == sheet.StateExpanded }

// Subject returns the current pub.
func (v *PubCardView) Subject() (api.Pub, bool) { return v.pub, v.hasPub }

// ApplyToggle patches the subject's flag so the card reflects a toggle
// without waiting for a refetch.
func (v *PubCardView) ApplyToggle(pubID, kind string, value bool) {
	if !v.hasPub || v.pub.ID != pubID {
		return
	}
	if kind == "favourite" {
		v.pub.Favourite = value
	} else {
		v.pub.Visited = value
	}
	v.renderContent()
}

// SetStats installs area coverage for the detail body. The card shows the
// subject's area alongside the overall tally.
func (v *PubCardView) SetStats(s api.ProfileStats) {
	v.stats = &s
	v.renderContent()
}

// HandleKey processes a key press while the card is up.
func (v *PubCardView) HandleKey(msg tea.KeyMsg, now time.Time) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Expand):
		if v.ctrl.State() == sheet.StateCollapsed {
			v.ctrl.SettleTo(now, sheet.StateExpanded)
			return v.ensureTick()
		}
		return nil
	case key.Matches(msg, v.keys.Collapse):
		if v.ctrl.State() == sheet.StateExpanded {
			v.ctrl.SettleTo(now, sheet.StateCollapsed)
			v.content.GotoTop()
			v.gate.Close()
			return v.ensureTick()
		}
		return v.Close(now)
	case key.Matches(msg, v.keys.Close):
		return v.Close(now)
	case key.Matches(msg, v.keys.Visited):
		pubID := v.pub.ID
		return func() tea.Msg { return ToggleVisitedMsg{PubID: pubID} }
	case key.Matches(msg, v.keys.Favourite):
		pubID := v.pub.ID
		return func() tea.Msg { return ToggleFavouriteMsg{PubID: pubID} }
	case key.Matches(msg, v.keys.Report):
		pubID := v.pub.ID
		return func() tea.Msg { return OpenReportMsg{PubID: pubID} }
	}

	switch msg.String() {
	case "up", "k":
		v.scrollContent(-1)
	case "down", "j":
		v.scrollContent(1)
	case "pgup":
		v.scrollContent(-v.content.Height)
	case "pgdown", " ":
		v.scrollContent(v.content.Height)
	}
	return nil
}

// Tick advances the settle animation one frame. The dismissal notification
// fires here, exactly once, after the card finished settling at hidden.
func (v *PubCardView) Tick(now time.Time) tea.Cmd {
	out := v.ctrl.Step(now)
	var cmds []tea.Cmd
	if out.Closed {
		v.hasPub = false
		v.stats = nil
		v.gate.Close()
		cmds = append(cmds, func() tea.Msg { return CardClosedMsg{} })
	}
	if v.ctrl.Animating() {
		cmds = append(cmds, sheetTickCmd(v.ctrl.Config().StepRate))
	} else {
		v.ticking = false
	}
	return tea.Batch(cmds...)
}

// ensureTick starts the frame loop when an animation is in flight and the
// loop is not already running. Double-scheduling would double the spring's
// effective rate.
func (v *PubCardView) ensureTick() tea.Cmd {
	if v.ticking || !v.ctrl.Animating() {
		return nil
	}
	v.ticking = true
	return sheetTickCmd(v.ctrl.Config().StepRate)
}

// Overlay paints the card over the base frame at its current row. Hidden or
// fully off-canvas positions leave the base untouched.
func (v *PubCardView) Overlay(base string) string {
	if v.rows <= 0 || v.width <= 0 {
		return base
	}
	if !v.hasPub && !v.ctrl.Animating() {
		return base
	}
	top := unitsToRow(v.ctrl.Position())
	if top < 0 {
		top = 0
	}
	if top >= v.rows {
		return base
	}
	card := strings.Join(v.cardLines(v.rows-top), "\n")
	return compositeAt(base, card, 0, top, v.width, v.rows)
}

// innerWidth is the text width inside the card's side borders and padding.
func (v *PubCardView) innerWidth() int {
	w := v.width - 4
	if w < 0 {
		w = 0
	}
	return w
}

// cardLines renders the top n rows of the card: chrome first, then as much
// of the detail viewport as fits.
func (v *PubCardView) cardLines(n int) []string {
	lines := make([]string, 0, n)
	lines = append(lines, v.topEdge())
	if len(lines) < n {
		lines = append(lines, v.cardLine(v.titleLine()))
	}
	if len(lines) < n {
		if v.Expanded() {
			lines = append(lines, v.cardLine(v.actionLine()))
		} else {
			lines = append(lines, v.cardLine(v.metaLine()))
		}
	}
	if len(lines) < n {
		lines = append(lines, v.separator())
	}
	if len(lines) < n {
		body := strings.Split(v.content.View(), "\n")
		for _, line := range body {
			if len(lines) >= n {
				break
			}
			lines = append(lines, v.cardLine(line))
		}
	}
	for len(lines) < n {
		lines = append(lines, v.cardLine(""))
	}
	return lines
}

// topEdge draws the rounded top border with the drag-handle affordance
// centered in it.
func (v *PubCardView) topEdge() string {
	span := v.width - 2
	if span < 0 {
		span = 0
	}
	const handle = "━━━━"
	if span <= len(handle)+2 {
		return Styles.CardEdge.Render("╭" + strings.Repeat("─", span) + "╮")
	}
	left := (span - len(handle)) / 2
	right := span - len(handle) - left
	return Styles.CardEdge.Render("╭"+strings.Repeat("─", left)) +
		Styles.DragHandle.Render(handle) +
		Styles.CardEdge.Render(strings.Repeat("─", right)+"╮")
}

func (v *PubCardView) separator() string {
	span := v.width - 2
	if span < 0 {
		span = 0
	}
	return Styles.CardEdge.Render("├" + strings.Repeat("─", span) + "┤")
}

// cardLine wraps one row of inner content in the card's side borders,
// padding to the full card width.
func (v *PubCardView) cardLine(inner string) string {
	w := v.innerWidth()
	inner = ansi.Truncate(inner, w, "…")
	inner = padRightANSI(inner, w)
	edge := Styles.CardEdge.Render("│")
	return edge + " " + inner + " " + edge
}

func (v *PubCardView) titleLine() string {
	marks := ""
	if v.pub.Visited {
		marks += " " + Styles.Visited.Render("✓")
	}
	if v.pub.Favourite {
		marks += " " + Styles.Favourite.Render("★")
	}
	return Styles.Title.Render(v.pub.Name) + marks
}

// metaLine is the collapsed summary row under the title.
func (v *PubCardView) metaLine() string {
	parts := []string{}
	if area := v.area(); area != "" {
		parts = append(parts, area)
	}
	parts = append(parts, fmt.Sprintf("%.1fkm", v.distanceKM()))
	if v.pub.Ownership != "" {
		parts = append(parts, v.pub.Ownership)
	}
	return Styles.Muted.Render(strings.Join(parts, " · "))
}

// actionLine replaces the meta row while expanded.
func (v *PubCardView) actionLine() string {
	actions := []string{
		v.actionHint("v", visitedLabel(v.pub.Visited)),
		v.actionHint("f", favouriteLabel(v.pub.Favourite)),
		v.actionHint("r", "report"),
		v.actionHint("x", "close"),
	}
	return strings.Join(actions, Styles.Muted.Render(" · "))
}

func (v *PubCardView) actionHint(k, label string) string {
	return Styles.Selected.Render(k) + " " + Styles.Muted.Render(label)
}

func visitedLabel(visited bool) string {
	if visited {
		return "unvisit"
	}
	return "visited"
}

func favouriteLabel(fav bool) string {
	if fav {
		return "unfavourite"
	}
	return "favourite"
}

func (v *PubCardView) area() string {
	if v.pub.Area != "" {
		return v.pub.Area
	}
	return v.pub.Borough
}

func (v *PubCardView) distanceKM() float64 {
	return geo.Distance(v.home, geo.Point{Lat: v.pub.Lat, Lon: v.pub.Lon})
}

// renderContent rebuilds the detail viewport body for the current subject,
// wrapped to the card's inner width.
func (v *PubCardView) renderContent() {
	if !v.hasPub || v.innerWidth() <= 0 {
		v.content.SetContent("")
		return
	}
	wrap := lipgloss.NewStyle().Width(v.innerWidth())
	var sb strings.Builder

	if v.pub.Description != "" {
		sb.WriteString(wrap.Inherit(Styles.Normal).Render(v.pub.Description))
		sb.WriteString("\n\n")
	}

	sb.WriteString(Styles.Section.Render("Details"))
	sb.WriteString("\n")
	if v.area() != "" {
		sb.WriteString(detailRow("Area", v.area()))
	}
	if v.pub.Borough != "" && v.pub.Borough != v.area() {
		sb.WriteString(detailRow("Borough", v.pub.Borough))
	}
	if v.pub.Ownership != "" {
		sb.WriteString(detailRow("Ownership", v.pub.Ownership))
	}
	sb.WriteString(detailRow("Distance", fmt.Sprintf("%.1fkm from home", v.distanceKM())))

	sb.WriteString("\n")
	sb.WriteString(Styles.Section.Render("Your passport"))
	sb.WriteString("\n")
	if v.pub.Visited {
		sb.WriteString(Styles.Visited.Render("  ✓ visited"))
	} else {
		sb.WriteString(Styles.Muted.Render("  not visited yet"))
	}
	sb.WriteString("\n")
	if v.pub.Favourite {
		sb.WriteString(Styles.Favourite.Render("  ★ favourite"))
		sb.WriteString("\n")
	}

	if v.stats != nil {
		sb.WriteString("\n")
		sb.WriteString(Styles.Section.Render("Area coverage"))
		sb.WriteString("\n")
		for _, a := range v.stats.Areas {
			if a.Area != v.area() {
				continue
			}
			sb.WriteString(detailRow(a.Area, fmt.Sprintf("%d of %d visited", a.Visited, a.Total)))
			break
		}
		sb.WriteString(detailRow("All areas", fmt.Sprintf("%d of %d visited", v.stats.Visited, v.stats.Total)))
	}

	v.content.SetContent(sb.String())
}

func detailRow(label, value string) string {
	return "  " + Styles.Muted.Render(label+": ") + Styles.Normal.Render(value) + "\n"
}
