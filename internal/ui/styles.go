package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

// Palette, as 256-color codes so rendering matches across terminal themes.
// Amber is the brand color; the grays track common terminal defaults.
const (
	ColorAccent    = "214" // amber, titles and brand chrome
	ColorHighlight = "205" // selection pink, same as the bubbles list default
	ColorDanger    = "196" // errors and destructive confirms
	ColorWarning   = "208" // data-issue detail text
	ColorText      = "252" // body text
	ColorMuted     = "241" // secondary text and hints
	ColorVisited   = "114" // visited glyph green
	ColorFavourite = "220" // favourite glyph gold
)

// Styles is the shared style set. Views and modals pull from here rather
// than constructing their own, so the whole app reskins in one place.
var Styles = struct {
	Title        lipgloss.Style // view and modal titles
	TitleWarning lipgloss.Style // destructive modal titles
	Section      lipgloss.Style // section headers inside a view
	Normal       lipgloss.Style // body text
	Muted        lipgloss.Style // secondary text
	Hint         lipgloss.Style // inline key hints
	Empty        lipgloss.Style // placeholders for views with nothing to show
	Status       lipgloss.Style // footer status line
	Error        lipgloss.Style // footer status line after a failed action
	Details      lipgloss.Style // report category and warning detail text
	Label        lipgloss.Style // modal field labels
	Selected     lipgloss.Style // highlighted row in lists and pickers

	Box       lipgloss.Style // modal frame
	BoxDanger lipgloss.Style // destructive modal frame

	CardEdge   lipgloss.Style // top edge line of the pub card
	DragHandle lipgloss.Style // drag affordance centered on the card edge

	Visited   lipgloss.Style // visited glyph
	Favourite lipgloss.Style // favourite glyph
}{
	Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorDanger)),
	Section:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHighlight)),
	Normal:       lipgloss.NewStyle().Foreground(lipgloss.Color(ColorText)),
	Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted)),
	Hint:         lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted)),
	Empty:        lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted)).Italic(true),
	Status:       lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent)),
	Error:        lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDanger)),
	Details:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)),
	Label:        lipgloss.NewStyle(),
	Selected:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorHighlight)),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2).
		Margin(1),
	BoxDanger: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2).
		Margin(1),

	CardEdge:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHighlight)),
	DragHandle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorMuted)),

	Visited:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorVisited)),
	Favourite: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorFavourite)),
}

// newBrowseDelegate is the single-line list delegate for the pub browser:
// no description row or spacing, with selection in the highlight color.
func newBrowseDelegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.SetSpacing(0)
	d.ShowDescription = false
	d.Styles.SelectedTitle = Styles.Selected
	d.Styles.SelectedDesc = Styles.Selected
	d.Styles.NormalTitle = Styles.Normal
	d.Styles.NormalDesc = Styles.Muted
	return d
}
