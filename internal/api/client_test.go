package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"snug/internal/geo"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL: srv.URL,
		APIKey:  "proj-key",
		Token:   "tok-1",
	})
}

func TestPubsNearSendsQueryAndAuth(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/pubs/near", r.URL.Path)
		require.Equal(t, "51.5", r.URL.Query().Get("lat"))
		require.Equal(t, "-0.12", r.URL.Query().Get("lon"))
		require.Equal(t, "5", r.URL.Query().Get("radius_km"))
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		require.Equal(t, "proj-key", r.Header.Get("apikey"))

		json.NewEncoder(w).Encode([]Pub{
			{ID: "p1", Name: "The Lamb", Area: "Bloomsbury"},
			{ID: "p2", Name: "The Crown", Area: "Soho"},
		})
	})

	pubs, err := c.PubsNear(context.Background(), geo.Point{Lat: 51.5, Lon: -0.12}, 5)
	require.NoError(t, err)
	require.Len(t, pubs, 2)
	require.Equal(t, "The Lamb", pubs[0].Name)
}

func TestAPIErrorDecoding(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "not_found",
			"message": "no such pub",
		})
	})

	_, err := c.Pub(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "not_found", apiErr.Code)
	require.Equal(t, "no such pub", apiErr.Message)
	require.False(t, errors.Is(err, ErrUnauthorized))
}

func TestUnauthorizedSentinel(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	})

	_, err := c.Leagues(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "token expired", apiErr.Message)
}

func TestLoginInstallsToken(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			require.Equal(t, "fran@example.net", creds["email"])
			json.NewEncoder(w).Encode(Session{Token: "tok-2", UserID: "u1", Name: "Fran"})
		case "/leagues":
			require.Equal(t, "Bearer tok-2", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode([]League{})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	s, err := c.Login(context.Background(), "fran@example.net", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "Fran", s.Name)

	_, err = c.Leagues(context.Background())
	require.NoError(t, err)
}

func TestToggleVisited(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/pubs/p9/visited", r.URL.Path)
		json.NewEncoder(w).Encode(toggleResult{Value: true})
	})

	on, err := c.ToggleVisited(context.Background(), "p9")
	require.NoError(t, err)
	require.True(t, on)
}

func TestLeaveLeagueNoContent(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/leagues/lg1/membership", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.LeaveLeague(context.Background(), "lg1"))
}

func TestSubmitReportGeneratesID(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var rep Report
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rep))
		_, err := uuid.Parse(rep.ID)
		require.NoError(t, err, "report ID must be a client-generated UUID")
		require.Equal(t, "p3", rep.PubID)
		require.Equal(t, ReportClosed, rep.Category)
		json.NewEncoder(w).Encode(rep)
	})

	rep, err := c.SubmitReport(context.Background(), "p3", ReportClosed, "boarded up since March")
	require.NoError(t, err)
	require.NotEmpty(t, rep.ID)
	require.Equal(t, "boarded up since March", rep.Detail)
}

func TestStatsRPC(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rpc/profile_stats", r.URL.Path)
		var loc map[string]float64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&loc))
		require.InDelta(t, 51.5, loc["lat"], 1e-9)
		json.NewEncoder(w).Encode(ProfileStats{
			Visited: 12, Total: 40, Favourites: 3,
			Areas: []AreaStat{{Area: "Soho", Visited: 5, Total: 11}},
		})
	})

	stats, err := c.Stats(context.Background(), geo.Point{Lat: 51.5, Lon: -0.12})
	require.NoError(t, err)
	require.Equal(t, 12, stats.Visited)
	require.Len(t, stats.Areas, 1)
}
