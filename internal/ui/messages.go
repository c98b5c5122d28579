package ui

import (
	"time"

	"snug/internal/api"
	"snug/internal/geo"
)

// ShowPubMsg is sent when the user selects a pub from the browse list; it
// becomes the card's subject and the card animates in.
type ShowPubMsg struct {
	Pub api.Pub
}

// CardClosedMsg is sent exactly once per dismissal, after the card finished
// settling at its hidden position. The subject is already cleared.
type CardClosedMsg struct{}

// ToggleVisitedMsg asks the app to flip the visited flag for a pub.
type ToggleVisitedMsg struct {
	PubID string
}

// ToggleFavouriteMsg asks the app to flip the favourite flag for a pub.
type ToggleFavouriteMsg struct {
	PubID string
}

// OpenReportMsg opens the report-issue modal for a pub.
type OpenReportMsg struct {
	PubID string
}

// PubsLoadedMsg delivers the browse list. FromCache is true when the backend
// was unreachable and the pubs came from the local store.
type PubsLoadedMsg struct {
	Pubs      []api.Pub
	FromCache bool
	FetchedAt time.Time
}

// ToggleAppliedMsg reports the result of a visited/favourite toggle. Queued
// is true when the backend was unreachable and the toggle was recorded
// locally for replay.
type ToggleAppliedMsg struct {
	PubID  string
	Kind   string // store.OpVisited or store.OpFavourite
	Value  bool
	Queued bool
}

// QueueFlushedMsg reports that queued offline toggles were replayed against
// the backend.
type QueueFlushedMsg struct {
	Applied int
}

// StatsLoadedMsg delivers profile statistics for a location. FromCache is
// true when served from the grid-cell cache without a backend round trip.
type StatsLoadedMsg struct {
	At        geo.Point
	Stats     api.ProfileStats
	FromCache bool
}

// LeaguesLoadedMsg delivers the caller's league memberships.
type LeaguesLoadedMsg struct {
	Leagues []api.League
}

// ShowStandingsMsg asks the app to load and follow a league's leaderboard.
type ShowStandingsMsg struct {
	League api.League
}

// StandingsLoadedMsg delivers one league's leaderboard.
type StandingsLoadedMsg struct {
	LeagueID  string
	Standings []api.Standing
}

// CreateLeagueMsg is sent when the user submits the create-league modal.
type CreateLeagueMsg struct {
	Name string
}

// LeagueCreatedMsg confirms creation; the league carries the invite code.
type LeagueCreatedMsg struct {
	League api.League
}

// JoinLeagueMsg is sent when the user submits an invite code.
type JoinLeagueMsg struct {
	Code string
}

// LeagueJoinedMsg confirms a join.
type LeagueJoinedMsg struct {
	League api.League
}

// ShowLeaveLeagueMsg opens the leave confirmation for a league.
type ShowLeaveLeagueMsg struct {
	League api.League
}

// LeaveLeagueMsg is sent when the user confirms leaving a league.
type LeaveLeagueMsg struct {
	LeagueID string
}

// LeagueLeftMsg confirms the membership was removed.
type LeagueLeftMsg struct {
	LeagueID string
}

// SubmitReportMsg is sent when the user submits the report-issue modal.
type SubmitReportMsg struct {
	PubID    string
	Category string
	Detail   string
}

// ReportSubmittedMsg confirms the report reached the backend.
type ReportSubmittedMsg struct {
	Report api.Report
}

// LeagueEventMsg is one push from the realtime standings feed.
type LeagueEventMsg struct {
	Event api.LeagueEvent
}

// leagueFeedClosedMsg reports that the realtime subscription ended.
type leagueFeedClosedMsg struct{}

// InviteCopiedMsg reports that an invite code was copied to the clipboard.
type InviteCopiedMsg struct {
	Code string
}

// DismissModalMsg is sent when user cancels a modal (Esc).
type DismissModalMsg struct{}

// ErrMsg carries a failed operation to the status line. There is no retry
// machinery; the user retries manually.
type ErrMsg struct {
	Context string
	Err     error
}

// sheetTickMsg drives the card's settle animation at the frame rate.
type sheetTickMsg time.Time
