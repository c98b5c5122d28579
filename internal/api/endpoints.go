package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"snug/internal/geo"
)

// Login exchanges credentials for a session and installs its token on the
// client.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	s, err := postJSON[Session](ctx, c, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return Session{}, err
	}
	c.SetToken(s.Token)
	return s, nil
}

// Pubs lists pubs, filtered to one area when area is non-empty.
func (c *Client) Pubs(ctx context.Context, area string) ([]Pub, error) {
	path := "/pubs"
	if area != "" {
		path += "?area=" + url.QueryEscape(area)
	}
	return getJSON[[]Pub](ctx, c, path)
}

// PubsNear lists pubs within radiusKM of a coordinate, nearest first.
func (c *Client) PubsNear(ctx context.Context, at geo.Point, radiusKM float64) ([]Pub, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(at.Lon, 'f', -1, 64))
	q.Set("radius_km", strconv.FormatFloat(radiusKM, 'f', -1, 64))
	return getJSON[[]Pub](ctx, c, "/pubs/near?"+q.Encode())
}

// Pub fetches a single pub.
func (c *Client) Pub(ctx context.Context, id string) (Pub, error) {
	return getJSON[Pub](ctx, c, "/pubs/"+url.PathEscape(id))
}

type toggleResult struct {
	Value bool `json:"value"`
}

// ToggleVisited flips the caller's visited flag for a pub and returns the
// new value.
func (c *Client) ToggleVisited(ctx context.Context, pubID string) (bool, error) {
	res, err := postJSON[toggleResult](ctx, c, "/pubs/"+url.PathEscape(pubID)+"/visited", nil)
	return res.Value, err
}

// ToggleFavourite flips the caller's favourite flag for a pub and returns
// the new value.
func (c *Client) ToggleFavourite(ctx context.Context, pubID string) (bool, error) {
	res, err := postJSON[toggleResult](ctx, c, "/pubs/"+url.PathEscape(pubID)+"/favourite", nil)
	return res.Value, err
}

// SetVisited forces the visited flag to an explicit value. The offline queue
// replays through this: blindly re-toggling would invert a flag that already
// matches.
func (c *Client) SetVisited(ctx context.Context, pubID string, value bool) (bool, error) {
	res, err := postJSON[toggleResult](ctx, c, "/pubs/"+url.PathEscape(pubID)+"/visited", map[string]bool{"value": value})
	return res.Value, err
}

// SetFavourite forces the favourite flag to an explicit value.
func (c *Client) SetFavourite(ctx context.Context, pubID string, value bool) (bool, error) {
	res, err := postJSON[toggleResult](ctx, c, "/pubs/"+url.PathEscape(pubID)+"/favourite", map[string]bool{"value": value})
	return res.Value, err
}

// Leagues lists the leagues the caller belongs to.
func (c *Client) Leagues(ctx context.Context) ([]League, error) {
	return getJSON[[]League](ctx, c, "/leagues")
}

// CreateLeague makes a new league owned by the caller; the returned record
// carries the invite code to share.
func (c *Client) CreateLeague(ctx context.Context, name string) (League, error) {
	return postJSON[League](ctx, c, "/leagues", map[string]string{"name": name})
}

// JoinLeague joins the league behind an invite code.
func (c *Client) JoinLeague(ctx context.Context, code string) (League, error) {
	return postJSON[League](ctx, c, "/leagues/join", map[string]string{"code": code})
}

// LeaveLeague removes the caller from a league.
func (c *Client) LeaveLeague(ctx context.Context, leagueID string) error {
	_, err := doJSON[struct{}](ctx, c, http.MethodDelete, "/leagues/"+url.PathEscape(leagueID)+"/membership", nil)
	return err
}

// Standings fetches a league's leaderboard.
func (c *Client) Standings(ctx context.Context, leagueID string) ([]Standing, error) {
	return getJSON[[]Standing](ctx, c, "/leagues/"+url.PathEscape(leagueID)+"/standings")
}

// SubmitReport files a data problem for a pub. The report ID is generated
// here so a retry after a network failure cannot double-file.
func (c *Client) SubmitReport(ctx context.Context, pubID, category, detail string) (Report, error) {
	r := Report{
		ID:       uuid.NewString(),
		PubID:    pubID,
		Category: category,
		Detail:   detail,
	}
	return postJSON[Report](ctx, c, "/reports", r)
}

// Stats fetches the profile aggregate computed around a location. Callers
// cache per grid cell via internal/stats.
func (c *Client) Stats(ctx context.Context, at geo.Point) (ProfileStats, error) {
	return postJSON[ProfileStats](ctx, c, "/rpc/profile_stats", map[string]float64{
		"lat": at.Lat,
		"lon": at.Lon,
	})
}
