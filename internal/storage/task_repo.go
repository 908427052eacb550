package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

type TaskInsert struct {
	ParentID *int64
	Title    string
	Notes    *string
	Lane     string
	Assignee *string
	DueAt    *time.Time
}

const taskColumns = `id, parent_id, title, notes, lane, assignee, created_at, due_at, completed_at`

func (r *TaskRepo) Insert(ctx context.Context, in TaskInsert) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (parent_id, title, notes, lane, assignee, due_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, in.ParentID, in.Title, in.Notes, in.Lane, in.Assignee, in.DueAt)
	if err != nil {
		return 0, fmt.Errorf("task insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("task last insert id: %w", err)
	}
	return id, nil
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = ?
	`, id)

	return scanTaskRow(row)
}

func (r *TaskRepo) ListAll(ctx context.Context) ([]Task, error) {
	return r.list(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY id ASC
	`)
}

// ListOpen returns tasks without a completion timestamp.
func (r *TaskRepo) ListOpen(ctx context.Context) ([]Task, error) {
	return r.list(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE completed_at IS NULL
		ORDER BY id ASC
	`)
}

func (r *TaskRepo) ListChildren(ctx context.Context, parentID int64) ([]Task, error) {
	return r.list(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE parent_id = ?
		ORDER BY id ASC
	`, parentID)
}

// CountOpenInLane counts open top-level tasks in the given lane.
func (r *TaskRepo) CountOpenInLane(ctx context.Context, lane string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM tasks
		WHERE lane = ? AND completed_at IS NULL AND parent_id IS NULL
	`, lane)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("task count lane: %w", err)
	}
	return n, nil
}

func (r *TaskRepo) MarkDone(ctx context.Context, id int64, completedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tasks SET completed_at = ? WHERE id = ?`, completedAt, id)
	if err != nil {
		return fmt.Errorf("task mark done: %w", err)
	}
	return nil
}

// Execer is satisfied by both *sql.DB and *sql.Tx so lane moves can run
// inside the promotion transaction.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// UpdateLane moves a task to a lane and resets its due timestamp.
func (r *TaskRepo) UpdateLane(ctx context.Context, ex Execer, id int64, lane string, dueAt time.Time) error {
	if ex == nil {
		ex = r.db
	}
	_, err := ex.ExecContext(ctx, `UPDATE tasks SET lane = ?, due_at = ? WHERE id = ?`, lane, dueAt, id)
	if err != nil {
		return fmt.Errorf("task update lane: %w", err)
	}
	return nil
}

func (r *TaskRepo) list(ctx context.Context, query string, args ...any) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task list rows: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(row scanner) (*Task, error) {
	var (
		id          int64
		parent      sql.NullInt64
		title       string
		notes       sql.NullString
		lane        string
		assignee    sql.NullString
		createdAt   time.Time
		dueAt       sql.NullTime
		completedAt sql.NullTime
	)

	if err := row.Scan(&id, &parent, &title, &notes, &lane, &assignee, &createdAt, &dueAt, &completedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("task scan: %w", err)
	}

	var parentID *int64
	if parent.Valid {
		v := parent.Int64
		parentID = &v
	}
	var noteStr *string
	if notes.Valid {
		v := notes.String
		noteStr = &v
	}
	var assigneeStr *string
	if assignee.Valid {
		v := assignee.String
		assigneeStr = &v
	}
	var due *time.Time
	if dueAt.Valid {
		v := dueAt.Time
		due = &v
	}
	var comp *time.Time
	if completedAt.Valid {
		v := completedAt.Time
		comp = &v
	}

	return &Task{
		ID:          id,
		ParentID:    parentID,
		Title:       title,
		Notes:       noteStr,
		Lane:        lane,
		Assignee:    assigneeStr,
		CreatedAt:   createdAt,
		DueAt:       due,
		CompletedAt: comp,
	}, nil
}
