package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"snug/internal/api"
)

const pubColumns = "id, name, area, borough, lat, lon, ownership, description, image_url, visited, favourite"

// UpsertPubs replaces the cached copy of each pub with the server's version.
// Call FlushQueue before refetching so queued offline toggles are not lost
// to the overwrite.
func (s *Store) UpsertPubs(ctx context.Context, pubs []api.Pub, fetchedAt time.Time) error {
	return s.withTx(func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO pubs (id, name, area, borough, lat, lon, ownership, description, image_url, visited, favourite, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				area = excluded.area,
				borough = excluded.borough,
				lat = excluded.lat,
				lon = excluded.lon,
				ownership = excluded.ownership,
				description = excluded.description,
				image_url = excluded.image_url,
				visited = excluded.visited,
				favourite = excluded.favourite,
				fetched_at = excluded.fetched_at`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, p := range pubs {
			_, err := stmt.ExecContext(ctx,
				p.ID, p.Name, p.Area, p.Borough, p.Lat, p.Lon,
				p.Ownership, p.Description, p.ImageURL, p.Visited, p.Favourite, fetchedAt)
			if err != nil {
				return fmt.Errorf("upsert pub %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// Pubs returns every cached pub ordered by name.
func (s *Store) Pubs(ctx context.Context) ([]api.Pub, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+pubColumns+" FROM pubs ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPubs(rows)
}

// PubsByArea returns cached pubs in one area, ordered by name.
func (s *Store) PubsByArea(ctx context.Context, area string) ([]api.Pub, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+pubColumns+" FROM pubs WHERE area = ? ORDER BY name", area)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPubs(rows)
}

// Pub returns one cached pub, or ErrNotFound.
func (s *Store) Pub(ctx context.Context, id string) (api.Pub, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+pubColumns+" FROM pubs WHERE id = ?", id)
	p, err := scanPub(row)
	if errors.Is(err, sql.ErrNoRows) {
		return api.Pub{}, ErrNotFound
	}
	return p, err
}

// SetVisited updates the cached visited flag. It does not touch the queue;
// callers enqueue separately when offline.
func (s *Store) SetVisited(ctx context.Context, id string, visited bool) error {
	return s.setFlag(ctx, "visited", id, visited)
}

// SetFavourite updates the cached favourite flag.
func (s *Store) SetFavourite(ctx context.Context, id string, favourite bool) error {
	return s.setFlag(ctx, "favourite", id, favourite)
}

func (s *Store) setFlag(ctx context.Context, column, id string, value bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE pubs SET "+column+" = ? WHERE id = ?", value, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// LastFetched reports when the cache was last refreshed from the server.
// Zero time when the cache is empty.
func (s *Store) LastFetched(ctx context.Context) (time.Time, error) {
	// Selecting the column directly keeps its TIMESTAMP decl type, which
	// the driver needs to hand back a time.Time.
	var at time.Time
	err := s.db.QueryRowContext(ctx,
		"SELECT fetched_at FROM pubs ORDER BY fetched_at DESC LIMIT 1").Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return at, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPub(row rowScanner) (api.Pub, error) {
	var p api.Pub
	err := row.Scan(&p.ID, &p.Name, &p.Area, &p.Borough, &p.Lat, &p.Lon,
		&p.Ownership, &p.Description, &p.ImageURL, &p.Visited, &p.Favourite)
	return p, err
}

func scanPubs(rows *sql.Rows) ([]api.Pub, error) {
	var pubs []api.Pub
	for rows.Next() {
		p, err := scanPub(rows)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, p)
	}
	return pubs, rows.Err()
}
