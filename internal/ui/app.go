package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"snug/internal/api"
	"snug/internal/geo"
	"snug/internal/stats"
	"snug/internal/store"
)

// footerRows is the fixed chrome below the content area: one status line and
// one help line.
const footerRows = 2

// AppModel is the root model. It switches between the browse list and the
// profile, floats the pub card over the browse view, and runs the modal
// stack on top of everything.
type AppModel struct {
	Mode AppMode
	Keys KeyMap

	Browse  *BrowseView
	Card    *PubCardView
	Profile *ProfileView
	Modals  ModalStack

	Client     *api.Client
	Store      *store.Store
	StatsCache *stats.Cache[api.ProfileStats]
	Home       geo.Point
	RadiusKM   float64

	feed        *api.LeagueFeed
	feedLeague  string
	help        help.Model
	status      string
	statusErr   bool
	syncedAt    time.Time
	offline     bool
	width       int
	height      int
}

// NewAppModel creates the root application model. Store and StatsCache may
// be nil; the app then runs online-only with no stats memo.
func NewAppModel(client *api.Client, st *store.Store, cache *stats.Cache[api.ProfileStats], home geo.Point, radiusKM float64) *AppModel {
	keys := DefaultKeyMap()
	return &AppModel{
		Mode:       ModeBrowse,
		Keys:       keys,
		Browse:     NewBrowseView(home, keys),
		Card:       NewPubCardView(home, keys),
		Profile:    NewProfileView(keys),
		Client:     client,
		Store:      st,
		StatsCache: cache,
		Home:       home,
		RadiusKM:   radiusKM,
		help:       newHelpModel(),
	}
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return tea.Batch(
		a.Browse.Init(),
		loadPubsCmd(a.Client, a.Store, a.Home, a.RadiusKM),
	)
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleResize(msg)

	case sheetTickMsg:
		return a, a.Card.Tick(time.Time(msg))

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.BlurMsg:
		// Terminal lost focus; a half-finished drag must not wedge the card.
		return a, a.Card.CancelTouch(time.Now())

	case tea.KeyMsg:
		return a.handleKey(msg)

	case ShowPubMsg:
		return a.handleShowPub(msg)
	case CardClosedMsg:
		a.setStatus("", false)
		return a, nil
	case ToggleVisitedMsg:
		return a, a.toggle(store.OpVisited, msg.PubID)
	case ToggleFavouriteMsg:
		return a, a.toggle(store.OpFavourite, msg.PubID)
	case ToggleAppliedMsg:
		return a.handleToggleApplied(msg)
	case QueueFlushedMsg:
		return a.handleQueueFlushed(msg)
	case PubsLoadedMsg:
		return a.handlePubsLoaded(msg)
	case StatsLoadedMsg:
		return a.handleStatsLoaded(msg)

	case OpenReportMsg:
		return a.handleOpenReport(msg)
	case SubmitReportMsg:
		return a.handleSubmitReport(msg)
	case ReportSubmittedMsg:
		a.setStatus("report submitted — thanks for the tip-off", false)
		return a, nil

	case LeaguesLoadedMsg:
		a.Profile.SetLeagues(msg.Leagues)
		return a, nil
	case ShowStandingsMsg:
		return a.handleShowStandings(msg)
	case StandingsLoadedMsg:
		a.Profile.SetStandings(msg.LeagueID, msg.Standings)
		return a, nil
	case LeagueEventMsg:
		return a.handleLeagueEvent(msg)
	case leagueFeedClosedMsg:
		a.Profile.SetLive(false)
		a.feed = nil
		a.feedLeague = ""
		return a, nil

	case CreateLeagueMsg:
		return a, createLeagueCmd(a.Client, msg.Name)
	case LeagueCreatedMsg:
		return a.handleLeagueCreated(msg)
	case InviteCopiedMsg:
		return a.handleInviteCopied(msg)
	case JoinLeagueMsg:
		return a, joinLeagueCmd(a.Client, msg.Code)
	case LeagueJoinedMsg:
		return a.handleLeagueJoined(msg)
	case ShowLeaveLeagueMsg:
		a.Modals.Push(NewLeaveLeagueConfirmModal(msg.League))
		return a, nil
	case LeaveLeagueMsg:
		a.Modals.Pop()
		return a, leaveLeagueCmd(a.Client, msg.LeagueID)
	case LeagueLeftMsg:
		return a.handleLeagueLeft(msg)

	case DismissModalMsg:
		a.Modals.Pop()
		return a, nil
	case ErrMsg:
		a.setStatus(msg.Context+": "+msg.Err.Error(), true)
		return a, nil
	}

	// Everything else (spinner ticks, input blinks) flows to both the top
	// modal and the current view; dropping a tick would stall its loop.
	var cmds []tea.Cmd
	if cmd, ok := a.Modals.Update(msg); ok {
		cmds = append(cmds, cmd)
	}
	v, cmd := a.currentView().Update(msg)
	a.setCurrentView(v)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	if a.width <= 0 || a.height <= 0 {
		return ""
	}
	base := fitCanvas(a.currentView().View(), a.width, a.contentRows())
	if a.Mode == ModeBrowse {
		base = a.Card.Overlay(base)
	}
	for _, modal := range a.Modals.Views() {
		base = centerPopup(base, modal.View(), a.width, a.contentRows())
	}
	return base + "\n" + a.footer()
}

func (a *appModelAdapter) contentRows() int {
	rows := a.height - footerRows
	if rows < 0 {
		rows = 0
	}
	return rows
}

func (a *appModelAdapter) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height
	a.Card.SetSize(msg.Width, a.contentRows())

	var cmds []tea.Cmd
	for _, view := range []View{a.Browse, a.Profile} {
		if _, cmd := view.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return a, tea.Batch(cmds...)
}

func (a *appModelAdapter) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	// Modals are keyboard-driven; swallow mouse traffic while one is up.
	if a.Modals.Len() > 0 {
		return a, nil
	}
	if a.Mode != ModeBrowse || !a.Card.Active() {
		return a, nil
	}
	if msg.Action == tea.MouseActionPress && msg.Y >= a.contentRows() {
		return a, nil
	}
	return a, a.Card.HandleMouse(msg, time.Now())
}

func (a *appModelAdapter) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The modal stack gets the keyboard first.
	if a.Modals.Len() > 0 {
		if key.Matches(msg, a.Keys.Back) {
			a.Modals.Pop()
			return a, nil
		}
		cmd, _ := a.Modals.Update(msg)
		return a, cmd
	}

	if key.Matches(msg, a.Keys.Quit) && !(a.Mode == ModeBrowse && a.Browse.Searching()) {
		a.closeFeed()
		return a, tea.Quit
	}

	if a.Mode == ModeBrowse && a.Card.Active() {
		return a, a.Card.HandleKey(msg, time.Now())
	}

	switch a.Mode {
	case ModeBrowse:
		if !a.Browse.Searching() {
			switch {
			case key.Matches(msg, a.Keys.Profile):
				return a.openProfile()
			case key.Matches(msg, a.Keys.Refresh):
				return a, tea.Batch(
					a.Browse.SetLoading(true),
					loadPubsCmd(a.Client, a.Store, a.Home, a.RadiusKM),
				)
			}
		}
	case ModeProfile:
		switch {
		case key.Matches(msg, a.Keys.Back):
			a.Mode = ModeBrowse
			a.closeFeed()
			return a, nil
		case key.Matches(msg, a.Keys.NewLeague):
			modal := NewCreateLeagueModal()
			a.Modals.Push(modal)
			return a, modal.Init()
		case key.Matches(msg, a.Keys.JoinLeague):
			modal := NewJoinLeagueModal()
			a.Modals.Push(modal)
			return a, modal.Init()
		}
	}

	v, cmd := a.currentView().Update(msg)
	a.setCurrentView(v)
	return a, cmd
}

func (a *appModelAdapter) openProfile() (tea.Model, tea.Cmd) {
	a.Mode = ModeProfile
	return a, tea.Batch(
		loadStatsCmd(a.Client, a.StatsCache, a.Home),
		loadLeaguesCmd(a.Client),
	)
}

func (a *appModelAdapter) currentView() View {
	switch a.Mode {
	case ModeProfile:
		return a.Profile
	default:
		return a.Browse
	}
}

func (a *appModelAdapter) setCurrentView(v View) {
	switch a.Mode {
	case ModeProfile:
		if p, ok := v.(*ProfileView); ok {
			a.Profile = p
		}
	default:
		if b, ok := v.(*BrowseView); ok {
			a.Browse = b
		}
	}
}

func (a *appModelAdapter) setStatus(s string, isErr bool) {
	a.status = s
	a.statusErr = isErr
}

// closeFeed tears down the realtime standings subscription, if any.
func (a *appModelAdapter) closeFeed() {
	if a.feed != nil {
		a.feed.Close()
		a.feed = nil
		a.feedLeague = ""
		a.Profile.SetLive(false)
	}
}

// footer renders the status line and the context-sensitive key help.
func (a *appModelAdapter) footer() string {
	left := a.status
	style := Styles.Status
	if a.statusErr {
		style = Styles.Error
	}
	left = style.Render(left)

	right := ""
	switch {
	case a.offline:
		right = Styles.Details.Render("offline")
	case !a.syncedAt.IsZero():
		right = Styles.Muted.Render("synced " + humanize.Time(a.syncedAt))
	}

	gap := a.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	statusLine := ansi.Truncate(left+strings.Repeat(" ", gap)+right, a.width, "")

	return statusLine + "\n" + a.help.ShortHelpView(a.helpBindings())
}

func (a *appModelAdapter) helpBindings() []key.Binding {
	if a.Modals.Len() > 0 {
		return nil
	}
	if a.Mode == ModeBrowse && a.Card.Active() {
		return a.Keys.cardHelp(a.Card.Expanded())
	}
	if a.Mode == ModeProfile {
		return a.Keys.profileHelp()
	}
	return a.Keys.browseHelp()
}
