package ui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"snug/internal/api"
	"snug/internal/geo"
)

func namesOf(pubs []api.Pub) []string {
	out := make([]string, len(pubs))
	for i, p := range pubs {
		out[i] = p.Name
	}
	return out
}

func TestRankPubsEmptyQuery(t *testing.T) {
	t.Parallel()

	pubs := []api.Pub{{Name: "The Harp"}, {Name: "The Grapes"}}
	require.Equal(t, pubs, rankPubs(pubs, ""))
}

func TestRankPubsPrefixBeatsSubstring(t *testing.T) {
	t.Parallel()

	// Nearest-first input order: The Harp would win on proximity, but a
	// name-prefix hit outranks a mid-name hit.
	pubs := []api.Pub{{Name: "The Harp"}, {Name: "Harp & Crown"}}
	require.Equal(t, []string{"Harp & Crown", "The Harp"}, namesOf(rankPubs(pubs, "harp")))

	// Case folds.
	require.Equal(t, []string{"Harp & Crown", "The Harp"}, namesOf(rankPubs(pubs, "HARP")))
}

func TestRankPubsKeepsProximityWithinTier(t *testing.T) {
	t.Parallel()

	pubs := []api.Pub{{Name: "The Harp"}, {Name: "The Grapes"}, {Name: "The Mayflower"}}
	require.Equal(t,
		[]string{"The Harp", "The Grapes", "The Mayflower"},
		namesOf(rankPubs(pubs, "the")))
}

func TestRankPubsFuzzyTail(t *testing.T) {
	t.Parallel()

	pubs := []api.Pub{
		{Name: "The Harp"},
		{Name: "The Grapes"},
		{Name: "Harp & Crown"},
		{Name: "The Mayflower"},
	}

	// A typo still finds its pub, and nothing else sneaks in.
	require.Equal(t, []string{"The Mayflower"}, namesOf(rankPubs(pubs, "mayflowr")))

	// Hopeless queries return nothing.
	require.Empty(t, rankPubs(pubs, "zzzzzz"))
}

func TestRankPubsFuzzyOrdersByScore(t *testing.T) {
	t.Parallel()

	// Both are fuzzy hits; the closer edit distance wins even though the
	// other pub is nearer.
	pubs := []api.Pub{{Name: "The Anchor"}, {Name: "Anchor"}}
	require.Equal(t, []string{"Anchor", "The Anchor"}, namesOf(rankPubs(pubs, "anchr")))
}

func TestSortByDistance(t *testing.T) {
	t.Parallel()

	home := geo.Point{Lat: 51.5074, Lon: -0.1278}
	pubs := []api.Pub{
		{Name: "far", Lat: home.Lat + 0.010, Lon: home.Lon},
		{Name: "close", Lat: home.Lat + 0.001, Lon: home.Lon},
		{Name: "mid", Lat: home.Lat + 0.005, Lon: home.Lon},
	}

	sorted := sortByDistance(pubs, home)
	require.Equal(t, []string{"close", "mid", "far"}, namesOf(sorted))

	// The input slice is left alone.
	require.Equal(t, []string{"far", "close", "mid"}, namesOf(pubs))
}
