package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"snug/internal/api"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "snug.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func samplePubs() []api.Pub {
	return []api.Pub{
		{
			ID:        "p1",
			Name:      "The Lamb",
			Area:      "Bloomsbury",
			Borough:   "Camden",
			Lat:       51.5224,
			Lon:       -0.1186,
			Ownership: "Young's",
			Visited:   true,
		},
		{
			ID:      "p2",
			Name:    "The Harp",
			Area:    "Covent Garden",
			Borough: "Westminster",
			Lat:     51.5096,
			Lon:     -0.1273,
		},
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snug.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Second open must tolerate already-applied migrations.
	s, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}

func TestUpsertAndListPubs(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	fetched := Now()

	require.NoError(t, s.UpsertPubs(ctx, samplePubs(), fetched))

	pubs, err := s.Pubs(ctx)
	require.NoError(t, err)
	require.Len(t, pubs, 2)
	// Ordered by name.
	require.Equal(t, "The Harp", pubs[0].Name)
	require.Equal(t, "The Lamb", pubs[1].Name)
	require.True(t, pubs[1].Visited)

	// Upserting again overwrites rather than duplicating.
	updated := samplePubs()
	updated[1].Visited = true
	updated[1].Ownership = "Independent"
	require.NoError(t, s.UpsertPubs(ctx, updated, fetched))

	pubs, err = s.Pubs(ctx)
	require.NoError(t, err)
	require.Len(t, pubs, 2)
	require.True(t, pubs[0].Visited)
	require.Equal(t, "Independent", pubs[0].Ownership)
}

func TestPubByIDAndArea(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertPubs(ctx, samplePubs(), Now()))

	p, err := s.Pub(ctx, "p2")
	require.NoError(t, err)
	require.Equal(t, "The Harp", p.Name)

	_, err = s.Pub(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	pubs, err := s.PubsByArea(ctx, "Bloomsbury")
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	require.Equal(t, "p1", pubs[0].ID)
}

func TestSetFlags(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.UpsertPubs(ctx, samplePubs(), Now()))

	require.NoError(t, s.SetVisited(ctx, "p2", true))
	require.NoError(t, s.SetFavourite(ctx, "p2", true))

	p, err := s.Pub(ctx, "p2")
	require.NoError(t, err)
	require.True(t, p.Visited)
	require.True(t, p.Favourite)

	require.ErrorIs(t, s.SetVisited(ctx, "missing", true), ErrNotFound)
}

func TestLastFetched(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	at, err := s.LastFetched(ctx)
	require.NoError(t, err)
	require.True(t, at.IsZero())

	fetched := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	require.NoError(t, s.UpsertPubs(ctx, samplePubs(), fetched))

	at, err = s.LastFetched(ctx)
	require.NoError(t, err)
	require.WithinDuration(t, fetched, at, time.Second)
}

func TestQueueCollapsesRepeatedToggles(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Enqueue(ctx, OpVisited, "p1", true))
	require.NoError(t, s.Enqueue(ctx, OpFavourite, "p1", true))
	require.NoError(t, s.Enqueue(ctx, OpVisited, "p1", false))

	ops, err := s.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 2)

	// Only the latest visited toggle survives; the favourite one is untouched.
	byKind := map[string]PendingOp{}
	for _, op := range ops {
		byKind[op.Kind] = op
	}
	require.False(t, byKind[OpVisited].Value)
	require.True(t, byKind[OpFavourite].Value)
}

func TestQueueCompleteRemovesOp(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Enqueue(ctx, OpVisited, "p1", true))
	require.NoError(t, s.Enqueue(ctx, OpVisited, "p2", true))

	ops, err := s.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 2)

	require.NoError(t, s.Complete(ctx, ops[0].ID))

	ops, err = s.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.Equal(t, "p2", ops[0].PubID)
}
