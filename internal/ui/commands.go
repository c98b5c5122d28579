package ui

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"snug/internal/api"
	"snug/internal/geo"
	"snug/internal/stats"
	"snug/internal/store"
)

// Commands wrap the service calls. Each runs on its own goroutine and
// reports back as a message; no call retries on failure (spec'd behavior:
// show the error, let the user retry).

// loadPubsCmd fetches pubs near home. Queued offline toggles are flushed
// first so the refetch cannot overwrite them, and on success the local store
// is refreshed. When the backend is unreachable the command falls back to
// the cached copy.
func loadPubsCmd(c *api.Client, st *store.Store, home geo.Point, radiusKM float64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		if st != nil {
			if n, err := replayQueue(ctx, c, st); err == nil && n > 0 {
				log.Printf("ui: replayed %d queued toggles", n)
			}
		}

		pubs, err := c.PubsNear(ctx, home, radiusKM)
		if err == nil {
			fetched := store.Now()
			if st != nil {
				if uerr := st.UpsertPubs(ctx, pubs, fetched); uerr != nil {
					log.Printf("ui: cache pubs: %v", uerr)
				}
			}
			return PubsLoadedMsg{Pubs: pubs, FetchedAt: fetched}
		}

		if st == nil {
			return ErrMsg{Context: "load pubs", Err: err}
		}
		cached, cerr := st.Pubs(ctx)
		if cerr != nil || len(cached) == 0 {
			return ErrMsg{Context: "load pubs", Err: err}
		}
		fetched, _ := st.LastFetched(ctx)
		return PubsLoadedMsg{Pubs: cached, FromCache: true, FetchedAt: fetched}
	}
}

// replayQueue pushes pending offline toggles to the backend with explicit
// set semantics. Stops at the first failure; the rest stay queued.
func replayQueue(ctx context.Context, c *api.Client, st *store.Store) (int, error) {
	ops, err := st.Pending(ctx)
	if err != nil {
		return 0, err
	}
	applied := 0
	for _, op := range ops {
		switch op.Kind {
		case store.OpVisited:
			_, err = c.SetVisited(ctx, op.PubID, op.Value)
		case store.OpFavourite:
			_, err = c.SetFavourite(ctx, op.PubID, op.Value)
		default:
			err = st.Complete(ctx, op.ID) // unknown kind, drop it
			continue
		}
		if err != nil {
			return applied, err
		}
		if err := st.Complete(ctx, op.ID); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// flushQueueCmd replays queued toggles explicitly, reporting how many made
// it through.
func flushQueueCmd(c *api.Client, st *store.Store) tea.Cmd {
	return func() tea.Msg {
		if st == nil {
			return QueueFlushedMsg{}
		}
		n, err := replayQueue(context.Background(), c, st)
		if err != nil && n == 0 {
			return ErrMsg{Context: "sync queued toggles", Err: err}
		}
		return QueueFlushedMsg{Applied: n}
	}
}

// toggleCmd flips one flag for a pub. Backend rejections surface as errors;
// network failures degrade to a queued local toggle so the tap is not lost.
func toggleCmd(c *api.Client, st *store.Store, kind, pubID string, current bool) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var (
			value bool
			err   error
		)
		switch kind {
		case store.OpVisited:
			value, err = c.ToggleVisited(ctx, pubID)
		case store.OpFavourite:
			value, err = c.ToggleFavourite(ctx, pubID)
		}
		if err == nil {
			if st != nil {
				if serr := applyLocalToggle(ctx, st, kind, pubID, value); serr != nil && !errors.Is(serr, store.ErrNotFound) {
					log.Printf("ui: cache toggle: %v", serr)
				}
			}
			return ToggleAppliedMsg{PubID: pubID, Kind: kind, Value: value}
		}

		var apiErr *api.APIError
		if errors.As(err, &apiErr) || st == nil {
			return ErrMsg{Context: "toggle " + kind, Err: err}
		}

		// Unreachable backend: apply locally and queue for replay.
		value = !current
		if serr := applyLocalToggle(ctx, st, kind, pubID, value); serr != nil && !errors.Is(serr, store.ErrNotFound) {
			return ErrMsg{Context: "toggle " + kind, Err: serr}
		}
		if qerr := st.Enqueue(ctx, kind, pubID, value); qerr != nil {
			return ErrMsg{Context: "queue " + kind, Err: qerr}
		}
		return ToggleAppliedMsg{PubID: pubID, Kind: kind, Value: value, Queued: true}
	}
}

func applyLocalToggle(ctx context.Context, st *store.Store, kind, pubID string, value bool) error {
	if kind == store.OpFavourite {
		return st.SetFavourite(ctx, pubID, value)
	}
	return st.SetVisited(ctx, pubID, value)
}

// loadStatsCmd serves profile statistics, preferring the grid-cell cache.
func loadStatsCmd(c *api.Client, cache *stats.Cache[api.ProfileStats], at geo.Point) tea.Cmd {
	return func() tea.Msg {
		now := time.Now()
		if cache != nil {
			if cached, ok := cache.Get(at, now); ok {
				return StatsLoadedMsg{At: at, Stats: cached, FromCache: true}
			}
		}
		s, err := c.Stats(context.Background(), at)
		if err != nil {
			return ErrMsg{Context: "load stats", Err: err}
		}
		if cache != nil {
			cache.Put(at, s, now)
		}
		return StatsLoadedMsg{At: at, Stats: s}
	}
}

func loadLeaguesCmd(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		leagues, err := c.Leagues(context.Background())
		if err != nil {
			return ErrMsg{Context: "load leagues", Err: err}
		}
		return LeaguesLoadedMsg{Leagues: leagues}
	}
}

func createLeagueCmd(c *api.Client, name string) tea.Cmd {
	return func() tea.Msg {
		l, err := c.CreateLeague(context.Background(), name)
		if err != nil {
			return ErrMsg{Context: "create league", Err: err}
		}
		return LeagueCreatedMsg{League: l}
	}
}

func joinLeagueCmd(c *api.Client, code string) tea.Cmd {
	return func() tea.Msg {
		l, err := c.JoinLeague(context.Background(), code)
		if err != nil {
			return ErrMsg{Context: "join league", Err: err}
		}
		return LeagueJoinedMsg{League: l}
	}
}

func leaveLeagueCmd(c *api.Client, leagueID string) tea.Cmd {
	return func() tea.Msg {
		if err := c.LeaveLeague(context.Background(), leagueID); err != nil {
			return ErrMsg{Context: "leave league", Err: err}
		}
		return LeagueLeftMsg{LeagueID: leagueID}
	}
}

func loadStandingsCmd(c *api.Client, leagueID string) tea.Cmd {
	return func() tea.Msg {
		standings, err := c.Standings(context.Background(), leagueID)
		if err != nil {
			return ErrMsg{Context: "load standings", Err: err}
		}
		return StandingsLoadedMsg{LeagueID: leagueID, Standings: standings}
	}
}

func submitReportCmd(c *api.Client, pubID, category, detail string) tea.Cmd {
	return func() tea.Msg {
		r, err := c.SubmitReport(context.Background(), pubID, category, detail)
		if err != nil {
			return ErrMsg{Context: "submit report", Err: err}
		}
		return ReportSubmittedMsg{Report: r}
	}
}

// waitLeagueEventCmd blocks on the realtime feed and delivers the next push.
// The handler re-issues it after each event, so the subscription pumps until
// the feed closes.
func waitLeagueEventCmd(feed *api.LeagueFeed) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-feed.Events()
		if !ok {
			return leagueFeedClosedMsg{}
		}
		return LeagueEventMsg{Event: ev}
	}
}

// copyInviteCmd writes an invite code to the system clipboard.
func copyInviteCmd(code string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(code); err != nil {
			return ErrMsg{Context: "copy invite code", Err: err}
		}
		return InviteCopiedMsg{Code: code}
	}
}

// sheetTickCmd schedules the next animation frame for the card.
func sheetTickCmd(stepRate int) tea.Cmd {
	if stepRate <= 0 {
		stepRate = 60
	}
	return tea.Tick(time.Second/time.Duration(stepRate), func(t time.Time) tea.Msg {
		return sheetTickMsg(t)
	})
}
