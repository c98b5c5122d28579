package stub

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"snug/internal/api"
)

const feedWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	// The stub serves local dev clients only.
	CheckOrigin: func(*http.Request) bool { return true },
}

// feedUpdate pairs a league with the event to push, built under the table
// lock and broadcast after it is released.
type feedUpdate struct {
	leagueID string
	event    api.LeagueEvent
}

// feedHub fans league events out to websocket subscribers. Its lock is
// separate from the table lock; broadcasts never run under Server.mu.
type feedHub struct {
	mu   sync.Mutex
	subs map[string]map[*feedConn]bool // league ID -> connections
}

type feedConn struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes
}

func newFeedHub() *feedHub {
	return &feedHub{subs: map[string]map[*feedConn]bool{}}
}

func (h *feedHub) add(leagueID string, c *feedConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[leagueID]
	if !ok {
		set = map[*feedConn]bool{}
		h.subs[leagueID] = set
	}
	set[c] = true
}

func (h *feedHub) remove(leagueID string, c *feedConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[leagueID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.subs, leagueID)
		}
	}
}

// broadcast pushes one event to every subscriber of a league. A failed
// write just drops that connection; its read loop notices and cleans up.
func (h *feedHub) broadcast(leagueID string, ev api.LeagueEvent) {
	h.mu.Lock()
	conns := make([]*feedConn, 0, len(h.subs[leagueID]))
	for c := range h.subs[leagueID] {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.mu.Lock()
		c.conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
		err := c.conn.WriteJSON(ev)
		c.mu.Unlock()
		if err != nil {
			c.conn.Close()
		}
	}
}

// handleLeagueFeed serves GET /realtime/leagues/{id}: upgrades to a
// websocket and streams standings and membership events. The current
// standings are pushed immediately so a fresh subscriber starts in sync.
func (s *Server) handleLeagueFeed(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	l, ok := s.leagues[id]
	member := ok && l.Members[u.ID]
	var initial []api.Standing
	if member {
		initial = s.standingsLocked(l)
	}
	s.mu.Unlock()

	if !member {
		ErrorResponse(w, http.StatusNotFound, "not_found", "not a member of that league")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("feed upgrade", "error", err)
		return
	}
	fc := &feedConn{conn: conn}
	s.hub.add(id, fc)
	slog.Info("feed attached", "league", id, "user", u.ID)

	defer func() {
		s.hub.remove(id, fc)
		conn.Close()
		slog.Info("feed detached", "league", id, "user", u.ID)
	}()

	fc.mu.Lock()
	conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
	err = conn.WriteJSON(api.LeagueEvent{LeagueID: id, Kind: api.EventStandings, Standings: initial})
	fc.mu.Unlock()
	if err != nil {
		return
	}

	// Drain the connection; the client never sends, so a read returning an
	// error just means it hung up.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
