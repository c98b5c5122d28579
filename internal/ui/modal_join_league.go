package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// JoinLeagueModal is a modal for entering a league invite code.
type JoinLeagueModal struct {
	input textinput.Model
}

// Ensure JoinLeagueModal implements View.
var _ View = (*JoinLeagueModal)(nil)

// NewJoinLeagueModal creates a join-league modal.
func NewJoinLeagueModal() *JoinLeagueModal {
	ti := textinput.New()
	ti.Placeholder = "invite code"
	ti.CharLimit = 12
	ti.Width = 24
	ti.Focus()
	return &JoinLeagueModal{input: ti}
}

// Init implements View.
func (m *JoinLeagueModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *JoinLeagueModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			// Codes are issued upper-case; accept either.
			code := strings.ToUpper(strings.TrimSpace(m.input.Value()))
			if code != "" {
				return m, func() tea.Msg { return JoinLeagueMsg{Code: code} }
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements View.
func (m *JoinLeagueModal) View() string {
	content := Styles.Title.Render("Join league") + "\n\n"
	content += m.input.View() + "\n\n"
	content += Styles.Hint.Render("Enter: join  Esc: cancel")
	return Styles.Box.Render(content)
}
