package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"snug/internal/api"
)

// CreateLeagueModal is a modal for naming a new league. After the backend
// confirms creation the same modal shows the invite code, so the creator can
// copy it before closing.
type CreateLeagueModal struct {
	input   textinput.Model
	created *api.League
	copied  bool
}

// Ensure CreateLeagueModal implements View.
var _ View = (*CreateLeagueModal)(nil)

// NewCreateLeagueModal creates a create-league modal in its naming phase.
func NewCreateLeagueModal() *CreateLeagueModal {
	ti := textinput.New()
	ti.Placeholder = "league name"
	ti.CharLimit = 48
	ti.Width = 32
	ti.Focus()
	return &CreateLeagueModal{input: ti}
}

// ShowInvite switches the modal to its invite-code phase.
func (m *CreateLeagueModal) ShowInvite(l api.League) {
	m.created = &l
	m.input.Blur()
}

// MarkCopied flags the invite code as copied to the clipboard.
func (m *CreateLeagueModal) MarkCopied() {
	m.copied = true
}

// Init implements View.
func (m *CreateLeagueModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *CreateLeagueModal) Update(msg tea.Msg) (View, tea.Cmd) {
	if m.created != nil {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "esc", "enter":
				return m, func() tea.Msg { return DismissModalMsg{} }
			case "c":
				return m, copyInviteCmd(m.created.InviteCode)
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "enter":
			name := strings.TrimSpace(m.input.Value())
			if name != "" {
				return m, func() tea.Msg { return CreateLeagueMsg{Name: name} }
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements View.
func (m *CreateLeagueModal) View() string {
	if m.created != nil {
		content := Styles.Title.Render("League created") + "\n\n"
		content += Styles.Label.Render(m.created.Name) + "\n\n"
		content += Styles.Muted.Render("Invite code: ") + Styles.Selected.Render(m.created.InviteCode)
		if m.copied {
			content += Styles.Status.Render("  copied!")
		}
		content += "\n\n" + Styles.Hint.Render("c: copy code  Enter: done")
		return Styles.Box.Render(content)
	}

	content := Styles.Title.Render("Create league") + "\n\n"
	content += m.input.View() + "\n\n"
	content += Styles.Hint.Render("Enter: create  Esc: cancel")
	return Styles.Box.Render(content)
}
