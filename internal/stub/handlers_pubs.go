package stub

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"

	"snug/internal/api"
	"snug/internal/geo"
)

// handleListPubs serves GET /pubs, optionally filtered to one area.
func (s *Server) handleListPubs(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	area := r.URL.Query().Get("area")

	s.mu.Lock()
	out := make([]api.Pub, 0, len(s.pubs))
	for i := range s.pubs {
		if area != "" && s.pubs[i].Area != area {
			continue
		}
		out = append(out, s.pubFor(u.ID, i))
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	JSONResponse(w, http.StatusOK, out)
}

// handleNearPubs serves GET /pubs/near?lat&lon&radius_km, nearest first.
func (s *Server) handleNearPubs(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	at, ok := parsePoint(w, r.URL.Query().Get("lat"), r.URL.Query().Get("lon"))
	if !ok {
		return
	}
	radiusKM, err := strconv.ParseFloat(r.URL.Query().Get("radius_km"), 64)
	if err != nil || radiusKM <= 0 {
		ErrorResponse(w, http.StatusBadRequest, "bad_request", "radius_km must be a positive number")
		return
	}

	type near struct {
		pub  api.Pub
		dist float64
	}

	s.mu.Lock()
	hits := make([]near, 0, len(s.pubs))
	for i := range s.pubs {
		d := geo.Distance(at, geo.Point{Lat: s.pubs[i].Lat, Lon: s.pubs[i].Lon})
		if d > radiusKM {
			continue
		}
		hits = append(hits, near{pub: s.pubFor(u.ID, i), dist: d})
	}
	s.mu.Unlock()

	sort.Slice(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	out := make([]api.Pub, len(hits))
	for i, h := range hits {
		out[i] = h.pub
	}
	JSONResponse(w, http.StatusOK, out)
}

// handleGetPub serves GET /pubs/{id}.
func (s *Server) handleGetPub(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	idx, ok := s.pubIndex[id]
	var p api.Pub
	if ok {
		p = s.pubFor(u.ID, idx)
	}
	s.mu.Unlock()

	if !ok {
		ErrorResponse(w, http.StatusNotFound, "not_found", "no such pub")
		return
	}
	JSONResponse(w, http.StatusOK, p)
}

// Flags a pub carries per user.
const (
	flagVisited   = "visited"
	flagFavourite = "favourite"
)

type flagRequest struct {
	Value *bool `json:"value"`
}

type flagResponse struct {
	Value bool `json:"value"`
}

// handleFlag serves POST /pubs/{id}/visited and /pubs/{id}/favourite. An
// empty body toggles; {"value": v} sets, which is what the client's offline
// queue replays with.
func (s *Server) handleFlag(flag string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := CurrentUser(r)
		id := mux.Vars(r)["id"]

		var req flagRequest
		if r.ContentLength > 0 {
			if err := ParseJSONBody(r, &req); err != nil {
				ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid JSON")
				return
			}
		}

		s.mu.Lock()
		_, ok := s.pubIndex[id]
		if !ok {
			s.mu.Unlock()
			ErrorResponse(w, http.StatusNotFound, "not_found", "no such pub")
			return
		}

		table := s.visits
		if flag == flagFavourite {
			table = s.favourites
		}
		flags := s.userFlags(table, u.ID)
		value := !flags[id]
		if req.Value != nil {
			value = *req.Value
		}
		if value {
			flags[id] = true
		} else {
			delete(flags, id)
		}

		// A visit moves league leaderboards; push fresh standings to every
		// league the user plays in.
		var updates []feedUpdate
		if flag == flagVisited {
			updates = s.standingsUpdatesFor(u.ID)
		}
		s.mu.Unlock()

		for _, up := range updates {
			s.hub.broadcast(up.leagueID, up.event)
		}

		slog.Info("flag set", "user", u.ID, "pub", id, "flag", flag, "value", value)
		JSONResponse(w, http.StatusOK, flagResponse{Value: value})
	}
}

// parsePoint reads lat/lon query parameters, writing the error response on
// failure.
func parsePoint(w http.ResponseWriter, latStr, lonStr string) (geo.Point, bool) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "bad_request", "lat must be a number")
		return geo.Point{}, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "bad_request", "lon must be a number")
		return geo.Point{}, false
	}
	return geo.Point{Lat: lat, Lon: lon}, true
}
