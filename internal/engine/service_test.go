package engine

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/config"
	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	svc := NewService(ctx, db, config.Default(), nil)
	t.Cleanup(func() {
		svc.Flush()
		_ = db.Close()
	})
	return svc
}

// pinDay fixes the service clock (and the engagement clock) to noon on the
// given date.
func pinDay(svc *Service, date string) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		panic(err)
	}
	at := day.Add(12 * time.Hour)
	svc.now = func() time.Time { return at }
	svc.eng.now = svc.now
}

func TestCompleteTaskRecordsPointsAndAudit(t *testing.T) {
	svc := newTestService(t)
	pinDay(svc, "2025-03-10")
	ctx := context.Background()

	id, err := svc.CreateTask(ctx, CreateTaskInput{Title: "write report", Lane: LaneLater})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := svc.CompleteTask(ctx, id)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.Subtask {
		t.Fatal("top-level task reported as subtask")
	}
	if res.Points != PointsTask {
		t.Fatalf("points = %d, want %d", res.Points, PointsTask)
	}
	if res.Streak != 1 {
		t.Fatalf("streak = %d, want 1", res.Streak)
	}
	if res.NowCleared {
		t.Fatal("later-lane completion should not clear the now lane")
	}

	got, err := svc.TaskRepo().Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Done() {
		t.Fatal("task not marked done")
	}

	events, err := svc.EventRepo().ListSince(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Kind != string(EventTaskComplete) {
		t.Fatalf("event kind = %q, want %q", events[0].Kind, EventTaskComplete)
	}
	if events[0].Points != PointsTask {
		t.Fatalf("event points = %d, want %d", events[0].Points, PointsTask)
	}
}

func TestStreakBonusAuditOnExtensionOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	pinDay(svc, "2025-03-10")
	id, err := svc.CreateTask(ctx, CreateTaskInput{Title: "day one"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, id); err != nil {
		t.Fatalf("complete: %v", err)
	}

	pinDay(svc, "2025-03-11")
	id, err = svc.CreateTask(ctx, CreateTaskInput{Title: "day two"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	res, err := svc.CompleteTask(ctx, id)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.Points != PointsTask+PointsStreakBonus {
		t.Fatalf("extension points = %d, want %d", res.Points, PointsTask+PointsStreakBonus)
	}

	events, err := svc.EventRepo().ListSince(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	var bonusRows int
	for _, e := range events {
		if e.Kind == string(EventStreakBonus) {
			bonusRows++
		}
	}
	// Starting the streak on day one pays nothing; only the day-two
	// extension leaves a bonus row.
	if bonusRows != 1 {
		t.Fatalf("streak bonus rows = %d, want 1", bonusRows)
	}
}

func TestCompleteTaskTwiceFails(t *testing.T) {
	svc := newTestService(t)
	pinDay(svc, "2025-03-10")
	ctx := context.Background()

	id, err := svc.CreateTask(ctx, CreateTaskInput{Title: "once", Lane: LaneSoon})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, id); err != nil {
		t.Fatalf("first complete: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, id); err == nil {
		t.Fatal("expected error completing a done task")
	}
}

func TestSubtaskCompletionAndDecompositionAward(t *testing.T) {
	svc := newTestService(t)
	pinDay(svc, "2025-03-10")
	ctx := context.Background()

	parentID, err := svc.CreateTask(ctx, CreateTaskInput{Title: "ship release", Lane: LaneSoon})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	subID, err := svc.CreateTask(ctx, CreateTaskInput{Title: "cut changelog", ParentID: &parentID})
	if err != nil {
		t.Fatalf("create subtask: %v", err)
	}

	sub, err := svc.TaskRepo().Get(ctx, subID)
	if err != nil {
		t.Fatalf("get subtask: %v", err)
	}
	if sub.Lane != string(LaneSoon) {
		t.Fatalf("subtask lane = %q, want parent lane %q", sub.Lane, LaneSoon)
	}

	res, err := svc.CompleteTask(ctx, subID)
	if err != nil {
		t.Fatalf("complete subtask: %v", err)
	}
	if !res.Subtask {
		t.Fatal("subtask completion not flagged")
	}
	if res.Points != PointsSubtask {
		t.Fatalf("subtask points = %d, want %d", res.Points, PointsSubtask)
	}

	res, err = svc.CompleteTask(ctx, parentID)
	if err != nil {
		t.Fatalf("complete parent: %v", err)
	}
	if res.Points != PointsTaskWithSubtasks {
		t.Fatalf("parent points = %d, want %d", res.Points, PointsTaskWithSubtasks)
	}

	events, err := svc.EventRepo().ListSince(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[1].Kind != string(EventTaskCompleteSubtasks) {
		t.Fatalf("parent event kind = %q, want %q", events[1].Kind, EventTaskCompleteSubtasks)
	}
}

func TestSubtasksCannotNest(t *testing.T) {
	svc := newTestService(t)
	pinDay(svc, "2025-03-10")
	ctx := context.Background()

	parentID, err := svc.CreateTask(ctx, CreateTaskInput{Title: "parent"})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}
	subID, err := svc.CreateTask(ctx, CreateTaskInput{Title: "sub", ParentID: &parentID})
	if err != nil {
		t.Fatalf("create subtask: %v", err)
	}
	if _, err := svc.CreateTask(ctx, CreateTaskInput{Title: "grandchild", ParentID: &subID}); err == nil {
		t.Fatal("expected error nesting under a subtask")
	}
}

func TestCreateTaskRejectsBlankTitle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateTask(ctx, CreateTaskInput{Title: "   "}); err == nil {
		t.Fatal("expected error for blank title")
	}
}

func TestNowClearedFiresWhenLaneEmpties(t *testing.T) {
	svc := newTestService(t)
	pinDay(svc, "2025-03-10")
	ctx := context.Background()

	a, err := svc.CreateTask(ctx, CreateTaskInput{Title: "first", Lane: LaneNow})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, err := svc.CreateTask(ctx, CreateTaskInput{Title: "second", Lane: LaneNow})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := svc.CompleteTask(ctx, a)
	if err != nil {
		t.Fatalf("complete first: %v", err)
	}
	if res.NowCleared {
		t.Fatal("now cleared with an open task remaining")
	}

	res, err = svc.CompleteTask(ctx, b)
	if err != nil {
		t.Fatalf("complete second: %v", err)
	}
	if !res.NowCleared {
		t.Fatal("did not report now cleared")
	}
	if res.Points != PointsTask+PointsNowCleared {
		t.Fatalf("points = %d, want %d", res.Points, PointsTask+PointsNowCleared)
	}
}

func TestRecordFocus(t *testing.T) {
	svc := newTestService(t)
	pinDay(svc, "2025-03-10")
	ctx := context.Background()

	if _, err := svc.RecordFocus(ctx, 0, nil); err == nil {
		t.Fatal("expected error for zero minutes")
	}
	missing := int64(999)
	if _, err := svc.RecordFocus(ctx, 25, &missing); err == nil {
		t.Fatal("expected error for unknown task")
	}

	pts, err := svc.RecordFocus(ctx, 25, nil)
	if err != nil {
		t.Fatalf("record focus: %v", err)
	}
	if pts != PointsFocusSession {
		t.Fatalf("points = %d, want %d", pts, PointsFocusSession)
	}
	day, ok := svc.Engagement().TodayStats()
	if !ok || day.FocusMinutes != 25 {
		t.Fatalf("today focus minutes = %d (present=%v), want 25", day.FocusMinutes, ok)
	}
}

func TestMoveTaskResetsDue(t *testing.T) {
	svc := newTestService(t)
	pinDay(svc, "2025-03-10")
	ctx := context.Background()

	id, err := svc.CreateTask(ctx, CreateTaskInput{Title: "stale idea", Lane: LanePark})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.MoveTask(ctx, id, Lane("urgent")); err == nil {
		t.Fatal("expected error for invalid lane")
	}
	if err := svc.MoveTask(ctx, id, LaneNow); err != nil {
		t.Fatalf("move: %v", err)
	}

	got, err := svc.TaskRepo().Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Lane != string(LaneNow) {
		t.Fatalf("lane = %q, want %q", got.Lane, LaneNow)
	}
	want := DueAt(svc.now(), LaneNow, svc.Timings())
	if got.DueAt == nil || !got.DueAt.Equal(want) {
		t.Fatalf("due = %v, want %v", got.DueAt, want)
	}
}

func TestRunPromotionsPersistsOneStep(t *testing.T) {
	svc := newTestService(t)
	pinDay(svc, "2025-03-10")
	ctx := context.Background()

	id, err := svc.CreateTask(ctx, CreateTaskInput{Title: "slow burn", Lane: LaneLater})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Default later horizon is 7 days; eight days on, the task is overdue.
	tick := svc.now().AddDate(0, 0, 8)
	promos, err := svc.RunPromotions(ctx, tick)
	if err != nil {
		t.Fatalf("run promotions: %v", err)
	}
	if len(promos) != 1 {
		t.Fatalf("promotions = %d, want 1", len(promos))
	}
	if promos[0].TaskID != id || promos[0].To != LaneSoon {
		t.Fatalf("promotion = %+v, want task %d to soon", promos[0], id)
	}

	got, err := svc.TaskRepo().Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Lane != string(LaneSoon) {
		t.Fatalf("lane = %q, want %q", got.Lane, LaneSoon)
	}

	// The fresh soon horizon has not elapsed, so a second pass is a no-op.
	promos, err = svc.RunPromotions(ctx, tick)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if len(promos) != 0 {
		t.Fatalf("second pass promotions = %d, want 0", len(promos))
	}
}

func TestLaneMoveRollsBackWithTransaction(t *testing.T) {
	ctx := context.Background()
	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := storage.NewTaskRepo(db)
	due := time.Now().AddDate(0, 0, 7)
	id, err := repo.Insert(ctx, storage.TaskInsert{Title: "tx check", Lane: "later", DueAt: &due})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	boom := errors.New("boom")
	err = storage.WithTx(ctx, db, func(tx *sql.Tx) error {
		if err := repo.UpdateLane(ctx, tx, id, "now", time.Now()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Lane != "later" {
		t.Fatalf("lane = %q after rollback, want later", got.Lane)
	}
}

func TestEngagementPersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	svc := NewService(ctx, db, config.Default(), nil)
	pinDay(svc, "2025-03-10")

	id, err := svc.CreateTask(ctx, CreateTaskInput{Title: "survives restarts"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, id); err != nil {
		t.Fatalf("complete: %v", err)
	}
	svc.Flush()
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err = storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer db.Close()
	svc = NewService(ctx, db, config.Default(), nil)

	if got := svc.Engagement().Points(); got != PointsTask {
		t.Fatalf("restored points = %d, want %d", got, PointsTask)
	}
	if got := svc.Engagement().Streak(); got != 1 {
		t.Fatalf("restored streak = %d, want 1", got)
	}
}
