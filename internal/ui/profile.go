package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"snug/internal/api"
	"snug/internal/ui/textutil"
)

// areaRowsMax caps the coverage table; past this the remainder collapses
// into a single "+N more" row.
const areaRowsMax = 8

// coverageBarWidth is the width of the per-area progress bar.
const coverageBarWidth = 10

// ProfileView shows the passport tally, per-area coverage, and league
// memberships with a live leaderboard for the selected league.
type ProfileView struct {
	keys KeyMap

	stats   *api.ProfileStats
	leagues []api.League
	cursor  int

	standingsFor string // league ID the standings below belong to
	standings    []api.Standing
	live         bool   // realtime feed attached
	feedNote     string // last member join/leave push

	width  int
	height int
}

// Ensure ProfileView implements View.
var _ View = (*ProfileView)(nil)

// NewProfileView creates an empty profile; stats and leagues arrive as
// messages once their loads finish.
func NewProfileView(keys KeyMap) *ProfileView {
	return &ProfileView{keys: keys}
}

// Init implements View.
func (p *ProfileView) Init() tea.Cmd {
	return nil
}

// SetStats installs the aggregate passport numbers.
func (p *ProfileView) SetStats(s api.ProfileStats) {
	p.stats = &s
}

// SetLeagues installs the membership list, keeping the cursor in range.
func (p *ProfileView) SetLeagues(leagues []api.League) {
	p.leagues = leagues
	if p.cursor >= len(leagues) {
		p.cursor = 0
	}
}

// SetStandings installs a league's leaderboard.
func (p *ProfileView) SetStandings(leagueID string, rows []api.Standing) {
	p.standingsFor = leagueID
	p.standings = rows
	p.feedNote = ""
}

// SetLive flags whether the realtime feed for the shown standings is up.
func (p *ProfileView) SetLive(live bool) {
	p.live = live
}

// ApplyEvent folds one realtime push into the view. Standings pushes for
// other leagues are ignored; membership pushes adjust the member tallies.
func (p *ProfileView) ApplyEvent(ev api.LeagueEvent) {
	switch ev.Kind {
	case api.EventStandings:
		if ev.LeagueID == p.standingsFor {
			p.standings = ev.Standings
		}
	case api.EventMemberJoined:
		p.adjustMembers(ev.LeagueID, 1)
		if ev.LeagueID == p.standingsFor && ev.Member != "" {
			p.feedNote = ev.Member + " joined"
		}
	case api.EventMemberLeft:
		p.adjustMembers(ev.LeagueID, -1)
		if ev.LeagueID == p.standingsFor && ev.Member != "" {
			p.feedNote = ev.Member + " left"
		}
	}
}

func (p *ProfileView) adjustMembers(leagueID string, delta int) {
	for i := range p.leagues {
		if p.leagues[i].ID == leagueID {
			p.leagues[i].Members += delta
			return
		}
	}
}

// SelectedLeague returns the league under the cursor.
func (p *ProfileView) SelectedLeague() (api.League, bool) {
	if p.cursor < 0 || p.cursor >= len(p.leagues) {
		return api.League{}, false
	}
	return p.leagues[p.cursor], true
}

// RemoveLeague drops a league from the list after a confirmed leave.
func (p *ProfileView) RemoveLeague(leagueID string) {
	for i := range p.leagues {
		if p.leagues[i].ID == leagueID {
			p.leagues = append(p.leagues[:i], p.leagues[i+1:]...)
			break
		}
	}
	if p.cursor >= len(p.leagues) {
		p.cursor = 0
	}
	if p.standingsFor == leagueID {
		p.standingsFor = ""
		p.standings = nil
		p.live = false
		p.feedNote = ""
	}
}

// Update implements View.
func (p *ProfileView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		case "down", "j":
			if p.cursor < len(p.leagues)-1 {
				p.cursor++
			}
			return p, nil
		case "enter":
			if l, ok := p.SelectedLeague(); ok {
				return p, func() tea.Msg { return ShowStandingsMsg{League: l} }
			}
			return p, nil
		case "x":
			if l, ok := p.SelectedLeague(); ok {
				return p, func() tea.Msg { return ShowLeaveLeagueMsg{League: l} }
			}
			return p, nil
		}
	}
	return p, nil
}

// View implements View.
func (p *ProfileView) View() string {
	var sb strings.Builder

	sb.WriteString(Styles.Title.Render("Your passport"))
	sb.WriteString("\n")
	if p.stats == nil {
		sb.WriteString(Styles.Empty.Render("  loading stats…"))
		sb.WriteString("\n")
	} else {
		sb.WriteString(fmt.Sprintf("  %s visited · %d favourite",
			Styles.Normal.Render(fmt.Sprintf("%d of %d pubs", p.stats.Visited, p.stats.Total)),
			p.stats.Favourites))
		sb.WriteString("\n")
	}

	if p.stats != nil && len(p.stats.Areas) > 0 {
		sb.WriteString("\n")
		sb.WriteString(Styles.Section.Render("Area coverage"))
		sb.WriteString("\n")
		sb.WriteString(p.coverageRows())
	}

	sb.WriteString("\n")
	sb.WriteString(Styles.Section.Render("Leagues"))
	sb.WriteString("\n")
	sb.WriteString(p.leagueRows())

	if p.standingsFor != "" {
		sb.WriteString("\n")
		sb.WriteString(p.standingsSection())
	}

	return sb.String()
}

func (p *ProfileView) coverageRows() string {
	var sb strings.Builder
	areas := p.stats.Areas
	shown := areas
	if len(shown) > areaRowsMax {
		shown = shown[:areaRowsMax]
	}
	nameWidth := 0
	for _, a := range shown {
		if w := textutil.VisualWidth(a.Area); w > nameWidth {
			nameWidth = w
		}
	}
	for _, a := range shown {
		sb.WriteString("  ")
		sb.WriteString(Styles.Normal.Render(textutil.PadRightVisual(a.Area, nameWidth)))
		sb.WriteString("  ")
		sb.WriteString(coverageBar(a.Visited, a.Total))
		sb.WriteString(Styles.Muted.Render(fmt.Sprintf("  %d/%d", a.Visited, a.Total)))
		sb.WriteString("\n")
	}
	if rest := len(areas) - len(shown); rest > 0 {
		sb.WriteString(Styles.Muted.Render(fmt.Sprintf("  +%d more areas", rest)))
		sb.WriteString("\n")
	}
	return sb.String()
}

// coverageBar renders a fixed-width visited/total bar.
func coverageBar(visited, total int) string {
	if total <= 0 {
		total = 1
	}
	filled := visited * coverageBarWidth / total
	if filled > coverageBarWidth {
		filled = coverageBarWidth
	}
	bar := Styles.Visited.Render(strings.Repeat("█", filled)) +
		Styles.Muted.Render(strings.Repeat("░", coverageBarWidth-filled))
	return bar
}

func (p *ProfileView) leagueRows() string {
	if len(p.leagues) == 0 {
		return Styles.Empty.Render("  no leagues yet — n creates one, i joins by code") + "\n"
	}
	var sb strings.Builder
	for i, l := range p.leagues {
		label := fmt.Sprintf("%s  (%d members)", l.Name, l.Members)
		if i == p.cursor {
			sb.WriteString(Styles.Selected.Render("> " + label))
		} else {
			sb.WriteString(Styles.Muted.Render("  " + label))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (p *ProfileView) standingsSection() string {
	var sb strings.Builder
	title := "Standings"
	for _, l := range p.leagues {
		if l.ID == p.standingsFor {
			title = "Standings — " + l.Name
			break
		}
	}
	sb.WriteString(Styles.Section.Render(title))
	if p.live {
		sb.WriteString(Styles.Status.Render("  ● live"))
	}
	sb.WriteString("\n")
	if len(p.standings) == 0 {
		sb.WriteString(Styles.Empty.Render("  no visits recorded yet"))
		sb.WriteString("\n")
	}
	for _, s := range p.standings {
		rank := humanize.Ordinal(s.Rank)
		sb.WriteString(fmt.Sprintf("  %s %s %s\n",
			Styles.Muted.Render(textutil.PadLeftVisual(rank, 4)),
			Styles.Normal.Render(textutil.PadRightVisual(textutil.Truncate(s.Name, 24), 24)),
			Styles.Visited.Render(fmt.Sprintf("%3d", s.Visited))))
	}
	if p.feedNote != "" {
		sb.WriteString(Styles.Muted.Render("  " + p.feedNote))
		sb.WriteString("\n")
	}
	return sb.String()
}
