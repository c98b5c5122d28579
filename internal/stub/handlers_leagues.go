package stub

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"snug/internal/api"
)

// handleListLeagues serves GET /leagues: the caller's memberships.
func (s *Server) handleListLeagues(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)

	s.mu.Lock()
	var out []api.League
	for _, l := range s.leagues {
		if l.Members[u.ID] {
			out = append(out, s.leagueFor(u.ID, l))
		}
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if out == nil {
		out = []api.League{}
	}
	JSONResponse(w, http.StatusOK, out)
}

type createLeagueRequest struct {
	Name string `json:"name"`
}

// handleCreateLeague serves POST /leagues. The creator becomes the first
// member and gets the invite code back.
func (s *Server) handleCreateLeague(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)

	var req createLeagueRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		ErrorResponse(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}

	s.mu.Lock()
	code := ""
	for {
		c, err := newInviteCode()
		if err != nil {
			s.mu.Unlock()
			slog.Error("invite code", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "internal", "could not create league")
			return
		}
		if _, taken := s.byCode[c]; !taken {
			code = c
			break
		}
	}
	l := &league{
		ID:         newLeagueID(),
		Name:       name,
		InviteCode: code,
		OwnerID:    u.ID,
		Members:    map[string]bool{u.ID: true},
		CreatedAt:  time.Now(),
	}
	s.leagues[l.ID] = l
	s.byCode[code] = l.ID
	out := s.leagueFor(u.ID, l)
	s.mu.Unlock()

	slog.Info("league created", "league", l.ID, "owner", u.ID)
	JSONResponse(w, http.StatusCreated, out)
}

type joinLeagueRequest struct {
	Code string `json:"code"`
}

// handleJoinLeague serves POST /leagues/join. Joining a league you are
// already in just returns it.
func (s *Server) handleJoinLeague(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)

	var req joinLeagueRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		ErrorResponse(w, http.StatusBadRequest, "bad_request", "code is required")
		return
	}

	s.mu.Lock()
	id, ok := s.byCode[code]
	if !ok {
		s.mu.Unlock()
		ErrorResponse(w, http.StatusNotFound, "not_found", "no league with that code")
		return
	}
	l := s.leagues[id]
	joined := !l.Members[u.ID]
	l.Members[u.ID] = true
	out := s.leagueFor(u.ID, l)
	var updates []feedUpdate
	if joined {
		updates = append(updates,
			feedUpdate{leagueID: l.ID, event: api.LeagueEvent{
				LeagueID: l.ID, Kind: api.EventMemberJoined, Member: u.Name,
			}},
			feedUpdate{leagueID: l.ID, event: api.LeagueEvent{
				LeagueID: l.ID, Kind: api.EventStandings, Standings: s.standingsLocked(l),
			}},
		)
	}
	s.mu.Unlock()

	for _, up := range updates {
		s.hub.broadcast(up.leagueID, up.event)
	}

	slog.Info("league join", "league", id, "user", u.ID, "new_member", joined)
	JSONResponse(w, http.StatusOK, out)
}

// handleLeaveLeague serves DELETE /leagues/{id}/membership. An empty league
// is deleted with its invite code.
func (s *Server) handleLeaveLeague(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	l, ok := s.leagues[id]
	if !ok || !l.Members[u.ID] {
		s.mu.Unlock()
		ErrorResponse(w, http.StatusNotFound, "not_found", "not a member of that league")
		return
	}
	delete(l.Members, u.ID)
	var updates []feedUpdate
	if len(l.Members) == 0 {
		delete(s.leagues, id)
		delete(s.byCode, l.InviteCode)
	} else {
		updates = append(updates,
			feedUpdate{leagueID: id, event: api.LeagueEvent{
				LeagueID: id, Kind: api.EventMemberLeft, Member: u.Name,
			}},
			feedUpdate{leagueID: id, event: api.LeagueEvent{
				LeagueID: id, Kind: api.EventStandings, Standings: s.standingsLocked(l),
			}},
		)
	}
	s.mu.Unlock()

	for _, up := range updates {
		s.hub.broadcast(up.leagueID, up.event)
	}

	slog.Info("league leave", "league", id, "user", u.ID)
	w.WriteHeader(http.StatusNoContent)
}

// handleStandings serves GET /leagues/{id}/standings.
func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	l, ok := s.leagues[id]
	if !ok || !l.Members[u.ID] {
		s.mu.Unlock()
		ErrorResponse(w, http.StatusNotFound, "not_found", "not a member of that league")
		return
	}
	rows := s.standingsLocked(l)
	s.mu.Unlock()

	JSONResponse(w, http.StatusOK, rows)
}

// standingsLocked computes a league's leaderboard: members by visit count,
// descending, ties sharing a rank. Caller holds mu.
func (s *Server) standingsLocked(l *league) []api.Standing {
	rows := make([]api.Standing, 0, len(l.Members))
	for userID := range l.Members {
		name := userID
		if u, ok := s.auth.UserByID(userID); ok {
			name = u.Name
		}
		rows = append(rows, api.Standing{
			UserID:  userID,
			Name:    name,
			Visited: len(s.visits[userID]),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Visited != rows[j].Visited {
			return rows[i].Visited > rows[j].Visited
		}
		return rows[i].Name < rows[j].Name
	})
	for i := range rows {
		if i > 0 && rows[i].Visited == rows[i-1].Visited {
			rows[i].Rank = rows[i-1].Rank
		} else {
			rows[i].Rank = i + 1
		}
	}
	return rows
}

// standingsUpdatesFor builds standings pushes for every league a user plays
// in, after their visit count changed. Caller holds mu.
func (s *Server) standingsUpdatesFor(userID string) []feedUpdate {
	var updates []feedUpdate
	for _, l := range s.leagues {
		if !l.Members[userID] {
			continue
		}
		updates = append(updates, feedUpdate{
			leagueID: l.ID,
			event: api.LeagueEvent{
				LeagueID: l.ID, Kind: api.EventStandings, Standings: s.standingsLocked(l),
			},
		})
	}
	return updates
}
