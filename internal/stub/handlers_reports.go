package stub

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"snug/internal/api"
)

// validCategories is the accepted report taxonomy.
var validCategories = func() map[string]bool {
	m := make(map[string]bool, len(api.ReportCategories))
	for _, c := range api.ReportCategories {
		m[c] = true
	}
	return m
}()

// handleSubmitReport serves POST /reports. The client supplies the report
// ID, so resubmitting after a dropped response returns the stored report
// instead of filing a duplicate.
func (s *Server) handleSubmitReport(w http.ResponseWriter, r *http.Request) {
	u := CurrentUser(r)

	var rep api.Report
	if err := ParseJSONBody(r, &rep); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}
	if rep.ID == "" {
		rep.ID = uuid.NewString()
	} else if _, err := uuid.Parse(rep.ID); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "bad_request", "id must be a UUID")
		return
	}
	if !validCategories[rep.Category] {
		ErrorResponse(w, http.StatusBadRequest, "bad_request", "unknown category")
		return
	}

	s.mu.Lock()
	if stored, ok := s.reports[rep.ID]; ok {
		s.mu.Unlock()
		JSONResponse(w, http.StatusOK, stored)
		return
	}
	if _, ok := s.pubIndex[rep.PubID]; !ok {
		s.mu.Unlock()
		ErrorResponse(w, http.StatusNotFound, "not_found", "no such pub")
		return
	}
	s.reports[rep.ID] = rep
	s.mu.Unlock()

	slog.Info("report filed", "report", rep.ID, "pub", rep.PubID, "category", rep.Category, "user", u.ID)
	JSONResponse(w, http.StatusCreated, rep)
}

// Reports returns every filed report, for tests and debugging.
func (s *Server) Reports() []api.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Report, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	return out
}
