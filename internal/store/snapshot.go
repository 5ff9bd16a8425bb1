package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deimos993/qprep/internal/quiz"
)

// SnapshotRepo persists one attempt snapshot per quiz identity. A second
// attempt under the same quiz id overwrites the first; single session per
// quiz identity is the intended model.
type SnapshotRepo struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

var _ quiz.SnapshotStore = (*SnapshotRepo)(nil)

// Save upserts the snapshot for quizID. Each save fully replaces the prior
// record, so redundant saves cannot corrupt it.
func (r *SnapshotRepo) Save(ctx context.Context, quizID string, snap *quiz.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO snapshots (quiz_id, data, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT (quiz_id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
		quizID, string(data), snap.SavedAt.Unix())
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the saved snapshot for quizID, or nil when none exists.
// Snapshots older than the TTL are deleted on read and reported absent.
func (r *SnapshotRepo) Load(ctx context.Context, quizID string) (*quiz.Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT data, saved_at FROM snapshots WHERE quiz_id = ?`, quizID)

	var data string
	var savedAt int64
	if err := row.Scan(&data, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	if r.now().Sub(time.Unix(savedAt, 0)) > r.ttl {
		_ = r.Clear(ctx, quizID)
		return nil, nil
	}

	var snap quiz.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		// A corrupt record can never be resumed; drop it.
		_ = r.Clear(ctx, quizID)
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Clear deletes the snapshot for quizID. Clearing an absent record is a no-op.
func (r *SnapshotRepo) Clear(ctx context.Context, quizID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE quiz_id = ?`, quizID)
	if err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

// ClearAll deletes every saved snapshot.
func (r *SnapshotRepo) ClearAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots`)
	if err != nil {
		return 0, fmt.Errorf("clear snapshots: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
