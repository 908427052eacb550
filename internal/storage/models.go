package storage

import "time"

type Task struct {
	ID          int64
	ParentID    *int64
	Title       string
	Notes       *string
	Lane        string
	Assignee    *string
	CreatedAt   time.Time
	DueAt       *time.Time
	CompletedAt *time.Time
}

// Done reports whether the task has been completed.
func (t *Task) Done() bool {
	return t.CompletedAt != nil
}

type Event struct {
	ID         string
	TaskID     *int64
	Kind       string
	Points     int
	EventDate  string
	OccurredAt time.Time
}
