// Package stub is a local implementation of the hosted pub-service schema,
// for offline development and integration tests. State lives in memory:
// pubs seeded from the embedded fixture, per-user visit and favourite flags,
// leagues with invite codes, and submitted reports. Restarting the process
// resets everything, which is the point.
package stub

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"snug/internal/api"
)

// league is one competition group with its member set.
type league struct {
	ID         string
	Name       string
	InviteCode string
	OwnerID    string
	Members    map[string]bool
	CreatedAt  time.Time
}

// Server holds the in-memory tables behind the stub's endpoints. All table
// access goes through mu; handlers run on the http server's goroutines.
type Server struct {
	auth *Auth
	hub  *feedHub

	mu         sync.Mutex
	pubs       []api.Pub // base records, user flags zero
	pubIndex   map[string]int
	visits     map[string]map[string]bool // user ID -> pub ID -> visited
	favourites map[string]map[string]bool
	leagues    map[string]*league
	byCode     map[string]string // invite code -> league ID
	reports    map[string]api.Report
}

// NewServer builds a stub over the given pub set. Pass the embedded fixture
// via LoadFixturePubs for the standard dev dataset.
func NewServer(auth *Auth, pubs []api.Pub) *Server {
	s := &Server{
		auth:       auth,
		hub:        newFeedHub(),
		pubs:       make([]api.Pub, len(pubs)),
		pubIndex:   make(map[string]int, len(pubs)),
		visits:     map[string]map[string]bool{},
		favourites: map[string]map[string]bool{},
		leagues:    map[string]*league{},
		byCode:     map[string]string{},
		reports:    map[string]api.Report{},
	}
	copy(s.pubs, pubs)
	for i := range s.pubs {
		s.pubs[i].Visited = false
		s.pubs[i].Favourite = false
		s.pubIndex[s.pubs[i].ID] = i
	}
	return s
}

// Router wires every endpoint of the hosted schema.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(WithLogging)

	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/auth/login", s.handleLogin).Methods("POST")

	authed := r.PathPrefix("/").Subrouter()
	authed.Use(s.auth.RequireAuth)
	authed.HandleFunc("/pubs", s.handleListPubs).Methods("GET")
	authed.HandleFunc("/pubs/near", s.handleNearPubs).Methods("GET")
	authed.HandleFunc("/pubs/{id}", s.handleGetPub).Methods("GET")
	authed.HandleFunc("/pubs/{id}/visited", s.handleFlag(flagVisited)).Methods("POST")
	authed.HandleFunc("/pubs/{id}/favourite", s.handleFlag(flagFavourite)).Methods("POST")

	authed.HandleFunc("/leagues", s.handleListLeagues).Methods("GET")
	authed.HandleFunc("/leagues", s.handleCreateLeague).Methods("POST")
	authed.HandleFunc("/leagues/join", s.handleJoinLeague).Methods("POST")
	authed.HandleFunc("/leagues/{id}/membership", s.handleLeaveLeague).Methods("DELETE")
	authed.HandleFunc("/leagues/{id}/standings", s.handleStandings).Methods("GET")

	authed.HandleFunc("/reports", s.handleSubmitReport).Methods("POST")
	authed.HandleFunc("/rpc/profile_stats", s.handleProfileStats).Methods("POST")

	authed.HandleFunc("/realtime/leagues/{id}", s.handleLeagueFeed).Methods("GET")
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// userFlags returns the flag set for one user, creating it on first touch.
// Caller holds mu.
func (s *Server) userFlags(table map[string]map[string]bool, userID string) map[string]bool {
	m, ok := table[userID]
	if !ok {
		m = map[string]bool{}
		table[userID] = m
	}
	return m
}

// pubFor returns the pub with the caller's flags applied. Caller holds mu.
func (s *Server) pubFor(userID string, idx int) api.Pub {
	p := s.pubs[idx]
	p.Visited = s.visits[userID][p.ID]
	p.Favourite = s.favourites[userID][p.ID]
	return p
}

// leagueFor renders a league record for one caller; the invite code is only
// revealed to members. Caller holds mu.
func (s *Server) leagueFor(userID string, l *league) api.League {
	out := api.League{ID: l.ID, Name: l.Name, Members: len(l.Members)}
	if l.Members[userID] {
		out.InviteCode = l.InviteCode
	}
	return out
}

// newLeagueID returns a fresh league identifier.
func newLeagueID() string {
	return "lg-" + uuid.NewString()
}

// codeAlphabet omits 0/O and 1/I so a code read off a phone screen types
// back correctly.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// newInviteCode draws a random join code. Caller holds mu and retries on the
// (unlikely) collision.
func newInviteCode() (string, error) {
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate invite code: %w", err)
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b), nil
}
