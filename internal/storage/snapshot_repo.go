package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EngagementSnapshotKey is the snapshot row holding the engagement state.
const EngagementSnapshotKey = "engagement"

// SnapshotRepo is a key-value blob store. The engagement engine treats the
// payload as opaque; this repo never inspects it.
type SnapshotRepo struct {
	db  *sql.DB
	key string
}

func NewSnapshotRepo(db *sql.DB, key string) *SnapshotRepo {
	return &SnapshotRepo{db: db, key: key}
}

// LoadSnapshot returns the stored blob, or (nil, nil) when none exists.
func (r *SnapshotRepo) LoadSnapshot(ctx context.Context) ([]byte, error) {
	row := r.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE key = ?`, r.key)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot load: %w", err)
	}
	return data, nil
}

func (r *SnapshotRepo) SaveSnapshot(ctx context.Context, data []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, r.key, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("snapshot save: %w", err)
	}
	return nil
}
