package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/gorilla/websocket"

	"snug/internal/jsonutil"
)

// Feed event kinds pushed by the backend.
const (
	EventStandings    = "standings"
	EventMemberJoined = "member_joined"
	EventMemberLeft   = "member_left"
)

// LeagueEvent is one push from the realtime standings feed.
type LeagueEvent struct {
	LeagueID  string     `json:"league_id"`
	Kind      string     `json:"kind"`
	Member    string     `json:"member,omitempty"`
	Standings []Standing `json:"standings,omitempty"`
}

const (
	feedDialTimeout = 5 * time.Second
	feedMaxBackoff  = 30 * time.Second
)

// LeagueFeed is a live subscription to one league's leaderboard. Events
// arrive on Events until Close (or the subscribe context) ends the feed.
type LeagueFeed struct {
	events chan LeagueEvent
	cancel context.CancelFunc
	done   chan struct{}
}

// SubscribeLeague opens the websocket feed for a league. The feed redials
// with capped backoff after connection loss, so a flaky network shows up as
// a quiet leaderboard rather than an error.
func (c *Client) SubscribeLeague(ctx context.Context, leagueID string) *LeagueFeed {
	ctx, cancel := context.WithCancel(ctx)
	f := &LeagueFeed{
		events: make(chan LeagueEvent, 16),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go f.run(ctx, c, leagueID)
	return f
}

// Events delivers feed pushes until the feed closes.
func (f *LeagueFeed) Events() <-chan LeagueEvent { return f.events }

// Close tears the subscription down and closes Events.
func (f *LeagueFeed) Close() {
	f.cancel()
	<-f.done
}

func (f *LeagueFeed) run(ctx context.Context, c *Client, leagueID string) {
	defer close(f.done)
	defer close(f.events)

	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}
		conn, err := dialLeague(ctx, c, leagueID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("api: league feed dial: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > feedMaxBackoff {
				backoff = feedMaxBackoff
			}
			continue
		}
		backoff = time.Second

		// Close the socket when ctx ends so the blocked read unwinds.
		watchdone := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				conn.Close()
			case <-watchdone:
			}
		}()

		f.pump(ctx, conn)
		close(watchdone)
		conn.Close()
	}
}

// pump reads messages until the connection drops. Undecodable frames are
// logged and skipped; one bad push must not kill the subscription.
func (f *LeagueFeed) pump(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var ev LeagueEvent
		if err := jsonutil.UnmarshalWithContext(data, &ev, "league event"); err != nil {
			log.Printf("api: league feed: %v", err)
			continue
		}
		select {
		case f.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func dialLeague(ctx context.Context, c *Client, leagueID string) (*websocket.Conn, error) {
	u, err := url.Parse(c.base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = path.Join("/", u.Path, "realtime", "leagues", leagueID)
	if tok := c.bearer(); tok != "" {
		q := u.Query()
		q.Set("token", tok)
		u.RawQuery = q.Encode()
	}

	d := websocket.Dialer{HandshakeTimeout: feedDialTimeout}
	hdr := http.Header{}
	if tok := c.bearer(); tok != "" {
		hdr.Set("Authorization", "Bearer "+tok)
	}
	conn, _, err := d.DialContext(ctx, u.String(), hdr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}
	return conn, nil
}
