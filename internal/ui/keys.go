package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap holds every binding the app responds to. Bindings are grouped per
// mode by the help functions below; the list and viewport components keep
// their own built-in navigation keys.
type KeyMap struct {
	Quit    key.Binding
	Search  key.Binding
	Open    key.Binding
	Profile key.Binding
	Refresh key.Binding

	Visited   key.Binding
	Favourite key.Binding
	Report    key.Binding
	Close     key.Binding
	Expand    key.Binding
	Collapse  key.Binding

	NewLeague  key.Binding
	JoinLeague key.Binding
	Leave      key.Binding
	Standings  key.Binding
	Back       key.Binding
}

// DefaultKeyMap returns the production bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open pub")),
		Profile: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		Refresh: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),

		Visited:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "visited")),
		Favourite: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favourite")),
		Report:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "report")),
		Close:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close")),
		Expand:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand")),
		Collapse:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "collapse")),

		NewLeague:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new league")),
		JoinLeague: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "join by code")),
		Leave:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "leave league")),
		Standings:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "standings")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

// browseHelp is the footer binding set for the browse list.
func (k KeyMap) browseHelp() []key.Binding {
	return []key.Binding{k.Open, k.Search, k.Profile, k.Refresh, k.Quit}
}

// cardHelp is the footer binding set while the pub card is up.
func (k KeyMap) cardHelp(expanded bool) []key.Binding {
	if expanded {
		return []key.Binding{k.Visited, k.Favourite, k.Report, k.Collapse, k.Close}
	}
	return []key.Binding{k.Expand, k.Visited, k.Favourite, k.Close}
}

// profileHelp is the footer binding set for the profile view.
func (k KeyMap) profileHelp() []key.Binding {
	return []key.Binding{k.Standings, k.NewLeague, k.JoinLeague, k.Leave, k.Back}
}

// newHelpModel returns the shared help footer renderer.
func newHelpModel() help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	h.Styles.ShortDesc = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted))
	h.Styles.ShortSeparator = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted))
	return h
}
