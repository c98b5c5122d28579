package stub

import (
	"net/http"
	"sort"

	"snug/internal/api"
	"snug/internal/geo"
)

type statsRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// handleProfileStats serves POST /rpc/profile_stats: the caller's passport
// aggregate. Areas come back nearest-first from the requested coordinate,
// which is what makes the location part of the cache key on the client.
func (s *Server) handleProfileStats(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)

	var req statsRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}
	at := geo.Point{Lat: req.Lat, Lon: req.Lon}

	type areaAgg struct {
		stat api.AreaStat
		// nearest pub in the area to the requested point
		dist float64
		seen bool
	}

	s.mu.Lock()
	visits := s.visits[u.ID]
	stats := api.ProfileStats{
		Visited:    len(visits),
		Total:      len(s.pubs),
		Favourites: len(s.favourites[u.ID]),
	}
	areas := map[string]*areaAgg{}
	for i := range s.pubs {
		p := &s.pubs[i]
		if p.Area == "" {
			continue
		}
		agg, ok := areas[p.Area]
		if !ok {
			agg = &areaAgg{stat: api.AreaStat{Area: p.Area}}
			areas[p.Area] = agg
		}
		agg.stat.Total++
		if visits[p.ID] {
			agg.stat.Visited++
		}
		d := geo.Distance(at, geo.Point{Lat: p.Lat, Lon: p.Lon})
		if !agg.seen || d < agg.dist {
			agg.dist = d
			agg.seen = true
		}
	}
	s.mu.Unlock()

	ordered := make([]*areaAgg, 0, len(areas))
	for _, agg := range areas {
		ordered = append(ordered, agg)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].dist != ordered[j].dist {
			return ordered[i].dist < ordered[j].dist
		}
		return ordered[i].stat.Area < ordered[j].stat.Area
	})
	stats.Areas = make([]api.AreaStat, len(ordered))
	for i, agg := range ordered {
		stats.Areas[i] = agg.stat
	}

	JSONResponse(w, http.StatusOK, stats)
}
