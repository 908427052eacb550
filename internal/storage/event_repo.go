package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

type EventInsert struct {
	ID         string
	TaskID     *int64
	Kind       string
	Points     int
	EventDate  string
	OccurredAt time.Time
}

func (r *EventRepo) Insert(ctx context.Context, in EventInsert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, task_id, kind, points, event_date, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, in.ID, in.TaskID, in.Kind, in.Points, in.EventDate, in.OccurredAt)
	if err != nil {
		return fmt.Errorf("event insert: %w", err)
	}
	return nil
}

// ListSince returns events dated on or after the given date key, oldest first.
func (r *EventRepo) ListSince(ctx context.Context, date string) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, kind, points, event_date, occurred_at
		FROM events
		WHERE event_date >= ?
		ORDER BY occurred_at ASC, rowid ASC
	`, date)
	if err != nil {
		return nil, fmt.Errorf("event list: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e      Event
			taskID sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &taskID, &e.Kind, &e.Points, &e.EventDate, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("event scan: %w", err)
		}
		if taskID.Valid {
			v := taskID.Int64
			e.TaskID = &v
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("event rows: %w", err)
	}
	return out, nil
}
