package stub

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"snug/internal/api"
)

// waitEvent pulls the next event of one kind off a feed, skipping others.
func waitEvent(t *testing.T, feed *api.LeagueFeed, kind string) api.LeagueEvent {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-feed.Events():
			require.True(t, ok, "feed closed while waiting for %s", kind)
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("no %s event within deadline", kind)
		}
	}
}

func TestLeagueFeedPushesStandings(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t)
	robin := loginClient(t, ts, "robin@snug.local")
	ash := loginClient(t, ts, "ash@snug.local")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l, err := robin.CreateLeague(ctx, "Feed Watchers")
	require.NoError(t, err)

	feed := robin.SubscribeLeague(ctx, l.ID)
	defer feed.Close()

	// The feed opens with a snapshot.
	ev := waitEvent(t, feed, api.EventStandings)
	require.Equal(t, l.ID, ev.LeagueID)
	require.Len(t, ev.Standings, 1)
	require.Equal(t, 0, ev.Standings[0].Visited)

	// A join pushes the membership change and fresh standings.
	_, err = ash.JoinLeague(ctx, l.InviteCode)
	require.NoError(t, err)
	ev = waitEvent(t, feed, api.EventMemberJoined)
	require.Equal(t, "Ash", ev.Member)
	ev = waitEvent(t, feed, api.EventStandings)
	require.Len(t, ev.Standings, 2)

	// A visit moves the board.
	_, err = ash.ToggleVisited(ctx, "pub-harp")
	require.NoError(t, err)
	ev = waitEvent(t, feed, api.EventStandings)
	require.Equal(t, "Ash", ev.Standings[0].Name)
	require.Equal(t, 1, ev.Standings[0].Visited)
	require.Equal(t, 1, ev.Standings[0].Rank)

	// Leaving announces itself.
	require.NoError(t, ash.LeaveLeague(ctx, l.ID))
	ev = waitEvent(t, feed, api.EventMemberLeft)
	require.Equal(t, "Ash", ev.Member)
}

func TestLeagueFeedRequiresMembership(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t)
	robin := loginClient(t, ts, "robin@snug.local")
	l, err := robin.CreateLeague(context.Background(), "Members Only")
	require.NoError(t, err)

	// Sam never joined, so the dial is refused before the upgrade.
	c := api.New(api.Config{BaseURL: ts.URL})
	sess, err := c.Login(context.Background(), "sam@snug.local", "pint-please")
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") +
		"/realtime/leagues/" + l.ID + "?token=" + url.QueryEscape(sess.Token)
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLeagueFeedFansOut(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t)
	robin := loginClient(t, ts, "robin@snug.local")
	ash := loginClient(t, ts, "ash@snug.local")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l, err := robin.CreateLeague(ctx, "Two Screens")
	require.NoError(t, err)
	_, err = ash.JoinLeague(ctx, l.InviteCode)
	require.NoError(t, err)

	feedA := robin.SubscribeLeague(ctx, l.ID)
	defer feedA.Close()
	feedB := ash.SubscribeLeague(ctx, l.ID)
	defer feedB.Close()
	waitEvent(t, feedA, api.EventStandings)
	waitEvent(t, feedB, api.EventStandings)

	_, err = robin.ToggleVisited(ctx, "pub-grapes")
	require.NoError(t, err)

	for _, feed := range []*api.LeagueFeed{feedA, feedB} {
		ev := waitEvent(t, feed, api.EventStandings)
		require.Equal(t, "Robin", ev.Standings[0].Name)
		require.Equal(t, 1, ev.Standings[0].Visited)
	}
}
