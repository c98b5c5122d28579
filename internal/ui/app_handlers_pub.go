package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"snug/internal/store"
)

// handleShowPub makes the selected pub the card's subject. Cached area stats
// fill the detail body immediately; a fresh load follows when the cache
// missed.
func (a *appModelAdapter) handleShowPub(msg ShowPubMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{a.Card.Show(msg.Pub, time.Now())}
	if a.StatsCache != nil {
		if cached, ok := a.StatsCache.Get(a.Home, time.Now()); ok {
			a.Card.SetStats(cached)
			return a, tea.Batch(cmds...)
		}
	}
	cmds = append(cmds, loadStatsCmd(a.Client, a.StatsCache, a.Home))
	return a, tea.Batch(cmds...)
}

// toggle builds the flip command for one flag, carrying the current value so
// an offline fallback knows what the new one should be.
func (a *appModelAdapter) toggle(kind, pubID string) tea.Cmd {
	current := false
	if pub, ok := a.Card.Subject(); ok && pub.ID == pubID {
		if kind == store.OpFavourite {
			current = pub.Favourite
		} else {
			current = pub.Visited
		}
	}
	return toggleCmd(a.Client, a.Store, kind, pubID, current)
}

func (a *appModelAdapter) handleToggleApplied(msg ToggleAppliedMsg) (tea.Model, tea.Cmd) {
	a.Browse.ApplyToggle(msg.PubID, msg.Kind, msg.Value)
	a.Card.ApplyToggle(msg.PubID, msg.Kind, msg.Value)

	// Visit counts moved, so the memoized stats are stale.
	if a.StatsCache != nil {
		a.StatsCache.Invalidate()
	}

	switch {
	case msg.Queued:
		a.setStatus("saved offline — syncs on next refresh", false)
	case msg.Value:
		a.setStatus(msg.Kind+" ✓", false)
	default:
		a.setStatus(msg.Kind+" cleared", false)
	}
	return a, nil
}

func (a *appModelAdapter) handleQueueFlushed(msg QueueFlushedMsg) (tea.Model, tea.Cmd) {
	if msg.Applied == 0 {
		return a, nil
	}
	if a.StatsCache != nil {
		a.StatsCache.Invalidate()
	}
	a.setStatus("synced queued changes", false)
	return a, nil
}

func (a *appModelAdapter) handlePubsLoaded(msg PubsLoadedMsg) (tea.Model, tea.Cmd) {
	a.Browse.SetPubs(msg.Pubs, msg.FromCache)
	a.offline = msg.FromCache
	a.syncedAt = msg.FetchedAt
	if msg.FromCache {
		a.setStatus("backend unreachable — showing cached pubs", true)
	} else {
		a.setStatus("", false)
	}
	return a, a.Browse.SetLoading(false)
}

func (a *appModelAdapter) handleStatsLoaded(msg StatsLoadedMsg) (tea.Model, tea.Cmd) {
	a.Profile.SetStats(msg.Stats)
	if a.Card.Active() {
		a.Card.SetStats(msg.Stats)
	}
	return a, nil
}

// handleOpenReport pushes the report modal for a pub.
func (a *appModelAdapter) handleOpenReport(msg OpenReportMsg) (tea.Model, tea.Cmd) {
	name := msg.PubID
	if pub, ok := a.Card.Subject(); ok && pub.ID == msg.PubID {
		name = pub.Name
	}
	modal := NewReportModal(msg.PubID, name)
	a.Modals.Push(modal)
	return a, modal.Init()
}

func (a *appModelAdapter) handleSubmitReport(msg SubmitReportMsg) (tea.Model, tea.Cmd) {
	a.Modals.Pop()
	return a, submitReportCmd(a.Client, msg.PubID, msg.Category, msg.Detail)
}
