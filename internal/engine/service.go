package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/config"
	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/logging"
	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/storage"
)

// Service is the host-facing facade: task CRUD with lane horizons, the
// promotion pass, and engagement event recording with its audit trail.
type Service struct {
	db      *sql.DB
	tasks   *storage.TaskRepo
	events  *storage.EventRepo
	timings config.LaneTimings
	eng     *Engagement
	log     *logging.Logger
	now     func() time.Time
}

func NewService(ctx context.Context, db *sql.DB, timings config.LaneTimings, log *logging.Logger) *Service {
	store := storage.NewSnapshotRepo(db, storage.EngagementSnapshotKey)
	return &Service{
		db:      db,
		tasks:   storage.NewTaskRepo(db),
		events:  storage.NewEventRepo(db),
		timings: timings,
		eng:     NewEngagement(ctx, store, log),
		log:     log,
		now:     time.Now,
	}
}

func (s *Service) TaskRepo() *storage.TaskRepo   { return s.tasks }
func (s *Service) EventRepo() *storage.EventRepo { return s.events }
func (s *Service) Engagement() *Engagement       { return s.eng }
func (s *Service) Timings() config.LaneTimings   { return s.timings }

// Flush waits for background snapshot writes. Call before closing the db.
func (s *Service) Flush() {
	s.eng.Flush()
}

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", errors.New("title is required")
	}
	return t, nil
}

type CreateTaskInput struct {
	Title    string
	Notes    *string
	Lane     Lane
	ParentID *int64
	Assignee *string
}

// CreateTask inserts a task with a due timestamp computed from its lane's
// horizon. Subtasks live one level deep and inherit the parent's lane.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (int64, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return 0, err
	}

	lane := in.Lane
	if !lane.IsValid() {
		lane = DefaultLane
	}

	if in.ParentID != nil {
		parent, err := s.tasks.Get(ctx, *in.ParentID)
		if err != nil {
			return 0, err
		}
		if parent == nil {
			return 0, fmt.Errorf("parent task %d not found", *in.ParentID)
		}
		if parent.ParentID != nil {
			return 0, fmt.Errorf("task %d is a subtask; subtasks cannot nest", *in.ParentID)
		}
		lane = Lane(parent.Lane)
	}

	due := DueAt(s.now(), lane, s.timings)
	return s.tasks.Insert(ctx, storage.TaskInsert{
		ParentID: in.ParentID,
		Title:    title,
		Notes:    in.Notes,
		Lane:     string(lane),
		Assignee: in.Assignee,
		DueAt:    &due,
	})
}

type CompleteResult struct {
	TaskID      int64
	Subtask     bool
	Points      int
	LevelBefore int
	LevelAfter  int
	LevelUp     bool
	Streak      int
	NowCleared  bool
}

// CompleteTask marks a task done and records the matching engagement event.
// Subtasks record the subtask event; top-level tasks record a task completion
// (with the decomposition award when children exist) and, when the now lane
// empties, the clear bonus.
func (s *Service) CompleteTask(ctx context.Context, id int64) (*CompleteResult, error) {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("task %d not found", id)
	}
	if t.Done() {
		return nil, fmt.Errorf("task %d is already done", id)
	}

	now := s.now()
	levelBefore := s.eng.Level()
	pointsBefore := s.eng.Points()
	streakBefore := s.eng.Streak()

	if err := s.tasks.MarkDone(ctx, id, now); err != nil {
		return nil, err
	}

	res := &CompleteResult{TaskID: id, LevelBefore: levelBefore}

	if t.ParentID != nil {
		res.Subtask = true
		s.eng.RecordSubtaskComplete()
		s.audit(ctx, EventSubtaskComplete, &id, now)
	} else {
		children, err := s.tasks.ListChildren(ctx, id)
		if err != nil {
			return nil, err
		}
		doneChildren := 0
		for i := range children {
			if children[i].Done() {
				doneChildren++
			}
		}
		kind := EventTaskComplete
		if len(children) > 0 {
			kind = EventTaskCompleteSubtasks
		}
		s.eng.RecordTaskComplete(len(children) > 0, doneChildren)
		s.audit(ctx, kind, &id, now)

		if Lane(t.Lane) == LaneNow {
			open, err := s.tasks.CountOpenInLane(ctx, string(LaneNow))
			if err != nil {
				return nil, err
			}
			if open == 0 {
				before := s.eng.Points()
				s.eng.RecordNowCleared()
				if s.eng.Points() > before {
					res.NowCleared = true
					s.audit(ctx, EventNowCleared, nil, now)
				}
			}
		}
	}

	// Growing from zero starts a streak rather than extending one; only an
	// extension pays the bonus, so only an extension gets an audit row.
	if streakBefore > 0 && s.eng.Streak() > streakBefore {
		s.audit(ctx, EventStreakBonus, nil, now)
	}

	res.Points = s.eng.Points() - pointsBefore
	res.LevelAfter = s.eng.Level()
	res.LevelUp = res.LevelAfter > levelBefore
	res.Streak = s.eng.Streak()
	return res, nil
}

// RecordFocus records a finished focus session, optionally linked to a task,
// and returns the points earned including any streak bonus.
func (s *Service) RecordFocus(ctx context.Context, minutes int, taskID *int64) (int, error) {
	if minutes <= 0 {
		return 0, fmt.Errorf("minutes must be positive, got %d", minutes)
	}
	if taskID != nil {
		t, err := s.tasks.Get(ctx, *taskID)
		if err != nil {
			return 0, err
		}
		if t == nil {
			return 0, fmt.Errorf("task %d not found", *taskID)
		}
	}

	now := s.now()
	pointsBefore := s.eng.Points()
	streakBefore := s.eng.Streak()

	s.eng.RecordFocusSession(minutes)
	s.audit(ctx, EventFocusSession, taskID, now)
	if streakBefore > 0 && s.eng.Streak() > streakBefore {
		s.audit(ctx, EventStreakBonus, nil, now)
	}
	return s.eng.Points() - pointsBefore, nil
}

// MoveTask manually moves a task to a lane, resetting its due timestamp to
// the new lane's horizon.
func (s *Service) MoveTask(ctx context.Context, id int64, lane Lane) error {
	if !lane.IsValid() {
		return fmt.Errorf("invalid lane: %q", lane)
	}
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("task %d not found", id)
	}
	if t.Done() {
		return fmt.Errorf("task %d is already done", id)
	}
	return s.tasks.UpdateLane(ctx, nil, id, string(lane), DueAt(s.now(), lane, s.timings))
}

// RunPromotions performs one scheduler tick: every open, overdue task
// advances one lane, persisted in a single transaction.
func (s *Service) RunPromotions(ctx context.Context, now time.Time) ([]Promotion, error) {
	open, err := s.tasks.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	promos := Promote(open, now, s.timings)
	if len(promos) == 0 {
		return nil, nil
	}

	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, p := range promos {
			if err := s.tasks.UpdateLane(ctx, tx, p.TaskID, string(p.To), p.DueAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return promos, nil
}

// audit writes one event row. Audit failures are logged, never surfaced: the
// engagement state already advanced and losing a ledger row is acceptable.
func (s *Service) audit(ctx context.Context, kind EventKind, taskID *int64, now time.Time) {
	err := s.events.Insert(ctx, storage.EventInsert{
		ID:         uuid.NewString(),
		TaskID:     taskID,
		Kind:       string(kind),
		Points:     PointsFor(kind),
		EventDate:  now.Format(DateLayout),
		OccurredAt: now,
	})
	if err != nil {
		s.log.Printf("engagement: audit event: %v", err)
	}
}
