package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"snug/internal/api"
)

// reportCategoryLabels maps backend category codes to display labels, in
// api.ReportCategories order.
var reportCategoryLabels = map[string]string{
	api.ReportClosed:        "Closed permanently",
	api.ReportWrongLocation: "Wrong location",
	api.ReportDuplicate:     "Duplicate entry",
	api.ReportBadInfo:       "Incorrect details",
	api.ReportOther:         "Other",
}

// ReportModal is a modal for reporting a data problem with a pub. Up/down
// pick the category; the text input takes an optional free-text detail.
type ReportModal struct {
	PubID    string
	pubName  string
	category int
	detail   textinput.Model
}

// Ensure ReportModal implements View.
var _ View = (*ReportModal)(nil)

// NewReportModal creates a report modal for one pub.
func NewReportModal(pubID, pubName string) *ReportModal {
	ti := textinput.New()
	ti.Placeholder = "details (optional)"
	ti.CharLimit = 280
	ti.Width = 40
	ti.Focus()
	return &ReportModal{PubID: pubID, pubName: pubName, detail: ti}
}

// Init implements View.
func (m *ReportModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *ReportModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "up", "shift+tab":
			m.category = (m.category + len(api.ReportCategories) - 1) % len(api.ReportCategories)
			return m, nil
		case "down", "tab":
			m.category = (m.category + 1) % len(api.ReportCategories)
			return m, nil
		case "enter":
			pubID := m.PubID
			category := api.ReportCategories[m.category]
			detail := strings.TrimSpace(m.detail.Value())
			return m, func() tea.Msg {
				return SubmitReportMsg{PubID: pubID, Category: category, Detail: detail}
			}
		}
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

// View implements View.
func (m *ReportModal) View() string {
	content := Styles.TitleWarning.Render("Report a problem") + "\n"
	content += Styles.Muted.Render(m.pubName) + "\n\n"
	for i, c := range api.ReportCategories {
		label := reportCategoryLabels[c]
		if label == "" {
			label = c
		}
		if i == m.category {
			content += Styles.Selected.Render("> "+label) + "\n"
		} else {
			content += Styles.Muted.Render("  "+label) + "\n"
		}
	}
	content += "\n" + m.detail.View() + "\n\n"
	content += Styles.Hint.Render("↑/↓: category  Enter: submit  Esc: cancel")
	return Styles.BoxDanger.Render(content)
}
