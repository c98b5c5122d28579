package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"snug/internal/geo"
)

func TestGetHitsWithinSameCell(t *testing.T) {
	t.Parallel()

	c := New[int](time.Minute, 8)
	now := time.Unix(0, 0)
	soho := geo.Point{Lat: 51.5136, Lon: -0.1365}

	_, ok := c.Get(soho, now)
	require.False(t, ok)

	c.Put(soho, 42, now)

	// A couple of streets away lands in the same grid cell.
	nearby := geo.Point{Lat: 51.5139, Lon: -0.1361}
	got, ok := c.Get(nearby, now.Add(30*time.Second))
	require.True(t, ok)
	require.Equal(t, 42, got)

	// A different part of town is a different cell.
	_, ok = c.Get(geo.Point{Lat: 51.5055, Lon: -0.0904}, now)
	require.False(t, ok)
}

func TestExpiredEntriesReadAsMisses(t *testing.T) {
	t.Parallel()

	c := New[string](time.Minute, 8)
	now := time.Unix(0, 0)
	at := geo.Point{Lat: 51.5, Lon: -0.12}

	c.Put(at, "fresh", now)

	_, ok := c.Get(at, now.Add(time.Minute+time.Second))
	require.False(t, ok)

	// Right at the boundary the entry still counts.
	got, ok := c.Get(at, now.Add(time.Minute))
	require.True(t, ok)
	require.Equal(t, "fresh", got)

	// Refreshing restores it.
	c.Put(at, "again", now.Add(2*time.Minute))
	got, ok = c.Get(at, now.Add(2*time.Minute+30*time.Second))
	require.True(t, ok)
	require.Equal(t, "again", got)
}

func TestSizeBoundEvictsOldest(t *testing.T) {
	t.Parallel()

	c := New[int](time.Hour, 3)
	now := time.Unix(0, 0)

	points := make([]geo.Point, 4)
	for i := range points {
		points[i] = geo.Point{Lat: 51.0 + float64(i), Lon: 0}
		c.Put(points[i], i, now.Add(time.Duration(i)*time.Second))
	}
	require.Equal(t, 3, c.Len())

	// The first insert was the oldest and must be gone.
	_, ok := c.Get(points[0], now.Add(time.Minute))
	require.False(t, ok)
	for i := 1; i < 4; i++ {
		_, ok := c.Get(points[i], now.Add(time.Minute))
		require.True(t, ok, "point %d evicted", i)
	}
}

func TestInvalidateDropsEverything(t *testing.T) {
	t.Parallel()

	c := New[int](time.Hour, 8)
	now := time.Unix(0, 0)
	for i := 0; i < 4; i++ {
		c.Put(geo.Point{Lat: float64(i), Lon: 0}, i, now)
	}
	require.Equal(t, 4, c.Len())

	c.Invalidate()
	require.Zero(t, c.Len())
	_, ok := c.Get(geo.Point{Lat: 0, Lon: 0}, now)
	require.False(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := New[int](time.Hour, 32)
	now := time.Unix(0, 0)
	done := make(chan struct{})
	for g := 0; g < 4; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 200; i++ {
				p := geo.Point{Lat: float64(i % 10), Lon: float64(g)}
				c.Put(p, i, now.Add(time.Duration(i)*time.Millisecond))
				c.Get(p, now.Add(time.Duration(i)*time.Millisecond))
			}
		}(g)
	}
	for g := 0; g < 4; g++ {
		<-done
	}
	require.LessOrEqual(t, c.Len(), 32)
}
