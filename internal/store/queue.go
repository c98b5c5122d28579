package store

import (
	"context"
	"database/sql"
	"time"
)

// Kinds of queued operations.
const (
	OpVisited   = "visited"
	OpFavourite = "favourite"
)

// PendingOp is a toggle made while offline, waiting to be replayed against
// the backend.
type PendingOp struct {
	ID       int64
	Kind     string
	PubID    string
	Value    bool
	QueuedAt time.Time
}

// Enqueue records a toggle for later replay. Repeated toggles of the same
// flag on the same pub collapse to the latest value.
func (s *Store) Enqueue(ctx context.Context, kind, pubID string, value bool) error {
	return s.withTx(func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM pending_ops WHERE kind = ? AND pub_id = ?", kind, pubID)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO pending_ops (kind, pub_id, value, queued_at) VALUES (?, ?, ?, ?)",
			kind, pubID, value, Now())
		return err
	})
}

// Pending returns queued operations oldest first.
func (s *Store) Pending(ctx context.Context) ([]PendingOp, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, kind, pub_id, value, queued_at FROM pending_ops ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []PendingOp
	for rows.Next() {
		var op PendingOp
		if err := rows.Scan(&op.ID, &op.Kind, &op.PubID, &op.Value, &op.QueuedAt); err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// Complete removes a replayed operation from the queue.
func (s *Store) Complete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM pending_ops WHERE id = ?", id)
	return err
}
