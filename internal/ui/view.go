package ui

import tea "github.com/charmbracelet/bubbletea"

// View is one screen or region of the app: the browse list, the pub card,
// the profile, and each modal all implement it. Update returns the view to
// keep using, which lets a view swap itself out without the caller knowing.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
