package api

// Pub is one pub record as the backend serves it. Visited and Favourite are
// the calling user's flags, joined in server-side.
type Pub struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Area        string  `json:"area"`
	Borough     string  `json:"borough"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Ownership   string  `json:"ownership"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Visited     bool    `json:"visited"`
	Favourite   bool    `json:"favourite"`
}

// League is a competition group; the invite code is only populated for
// leagues the caller belongs to.
type League struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	InviteCode string `json:"invite_code"`
	Members    int    `json:"members"`
}

// Standing is one row of a league leaderboard.
type Standing struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Visited int    `json:"visited"`
	Rank    int    `json:"rank"`
}

// Report categories accepted by the backend.
const (
	ReportClosed        = "closed"
	ReportWrongLocation = "wrong_location"
	ReportDuplicate     = "duplicate"
	ReportBadInfo       = "bad_info"
	ReportOther         = "other"
)

// ReportCategories lists the accepted categories in display order.
var ReportCategories = []string{
	ReportClosed,
	ReportWrongLocation,
	ReportDuplicate,
	ReportBadInfo,
	ReportOther,
}

// Report is a user-submitted data problem for one pub. ID is generated
// client-side so resubmitting after a network failure stays idempotent.
type Report struct {
	ID       string `json:"id"`
	PubID    string `json:"pub_id"`
	Category string `json:"category"`
	Detail   string `json:"detail"`
}

// AreaStat is per-area visit coverage.
type AreaStat struct {
	Area    string `json:"area"`
	Visited int    `json:"visited"`
	Total   int    `json:"total"`
}

// ProfileStats is the aggregate the stats endpoint computes around a
// location.
type ProfileStats struct {
	Visited    int        `json:"visited"`
	Total      int        `json:"total"`
	Favourites int        `json:"favourites"`
	Areas      []AreaStat `json:"areas"`
}

// Session is the result of a successful login.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}
