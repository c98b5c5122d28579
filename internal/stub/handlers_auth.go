package stub

import (
	"log/slog"
	"net/http"
	"time"

	"snug/internal/api"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin exchanges demo credentials for a signed session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "bad_request", "invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		ErrorResponse(w, http.StatusBadRequest, "bad_request", "email and password are required")
		return
	}

	u, ok := s.auth.Login(req.Email, req.Password)
	if !ok {
		ErrorResponse(w, http.StatusUnauthorized, "bad_credentials", "wrong email or password")
		return
	}

	tok, err := s.auth.IssueToken(u, time.Now())
	if err != nil {
		slog.Error("issue token", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "internal", "could not issue token")
		return
	}

	slog.Info("login", "user", u.ID)
	JSONResponse(w, http.StatusOK, api.Session{Token: tok, UserID: u.ID, Name: u.Name})
}
