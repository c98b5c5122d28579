package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// handleShowStandings loads a league's leaderboard and attaches the realtime
// feed for it. Selecting a different league swaps the subscription.
func (a *appModelAdapter) handleShowStandings(msg ShowStandingsMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{loadStandingsCmd(a.Client, msg.League.ID)}

	if a.feedLeague != msg.League.ID {
		a.closeFeed()
		a.feed = a.Client.SubscribeLeague(context.Background(), msg.League.ID)
		a.feedLeague = msg.League.ID
		a.Profile.SetLive(true)
		cmds = append(cmds, waitLeagueEventCmd(a.feed))
	}
	return a, tea.Batch(cmds...)
}

// handleLeagueEvent folds one realtime push into the profile and re-arms the
// feed wait.
func (a *appModelAdapter) handleLeagueEvent(msg LeagueEventMsg) (tea.Model, tea.Cmd) {
	a.Profile.ApplyEvent(msg.Event)
	if a.feed == nil {
		return a, nil
	}
	return a, waitLeagueEventCmd(a.feed)
}

// handleLeagueCreated flips the create modal into its invite-code phase so
// the code can be copied before closing.
func (a *appModelAdapter) handleLeagueCreated(msg LeagueCreatedMsg) (tea.Model, tea.Cmd) {
	if top, ok := a.Modals.Top(); ok {
		if modal, ok := top.(*CreateLeagueModal); ok {
			modal.ShowInvite(msg.League)
		}
	}
	a.setStatus("created "+msg.League.Name, false)
	return a, loadLeaguesCmd(a.Client)
}

func (a *appModelAdapter) handleInviteCopied(msg InviteCopiedMsg) (tea.Model, tea.Cmd) {
	if top, ok := a.Modals.Top(); ok {
		if modal, ok := top.(*CreateLeagueModal); ok {
			modal.MarkCopied()
		}
	}
	a.setStatus("invite code "+msg.Code+" copied", false)
	return a, nil
}

func (a *appModelAdapter) handleLeagueJoined(msg LeagueJoinedMsg) (tea.Model, tea.Cmd) {
	a.Modals.Pop()
	a.setStatus("joined "+msg.League.Name, false)
	return a, loadLeaguesCmd(a.Client)
}

func (a *appModelAdapter) handleLeagueLeft(msg LeagueLeftMsg) (tea.Model, tea.Cmd) {
	if a.feedLeague == msg.LeagueID {
		a.closeFeed()
	}
	a.Profile.RemoveLeague(msg.LeagueID)
	a.setStatus("left league", false)
	return a, nil
}
