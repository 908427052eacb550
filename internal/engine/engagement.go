package engine

import (
	"context"
	"sync"
	"time"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/logging"
)

// SnapshotStore persists the engagement state as an opaque blob. The engine
// alone defines the payload shape.
type SnapshotStore interface {
	// LoadSnapshot returns (nil, nil) when no snapshot exists yet.
	LoadSnapshot(ctx context.Context) ([]byte, error)
	SaveSnapshot(ctx context.Context, data []byte) error
}

// State is the engagement engine's mutable state. One instance per user.
type State struct {
	Streak            int
	LongestStreak     int
	TasksCompleted    int
	SubtasksCompleted int
	FocusMinutes      int
	Points            int
	LastActiveDate    string
	ProtectionUsed    bool
	Days              []DailyStat
	Unlocked          map[string]time.Time

	// PendingUnlocks queues unlocked achievement ids the user has not yet
	// acknowledged, oldest first. Persisted so unlocks survive the short
	// CLI process that earned them.
	PendingUnlocks []string
}

func defaultState() State {
	return State{Unlocked: map[string]time.Time{}}
}

// Engagement consumes completion events and maintains streak, points, the
// daily ledger and achievement unlocks.
//
// Not safe for concurrent use: every operation reads then writes the same
// state. Hosts with multiple goroutines must serialize calls themselves.
type Engagement struct {
	store SnapshotStore
	log   *logging.Logger
	now   func() time.Time

	state State
	saves latestWriter
}

// NewEngagement loads the stored snapshot, falling back to default state when
// it is missing or unreadable. Load problems are logged, never fatal.
func NewEngagement(ctx context.Context, store SnapshotStore, log *logging.Logger) *Engagement {
	e := &Engagement{
		store: store,
		log:   log,
		now:   time.Now,
		state: defaultState(),
	}

	data, err := store.LoadSnapshot(ctx)
	if err != nil {
		log.Printf("engagement: snapshot load failed, starting fresh: %v", err)
		return e
	}
	if data == nil {
		return e
	}
	state, err := decodeSnapshot(data)
	if err != nil {
		log.Printf("engagement: snapshot corrupt, starting fresh: %v", err)
		return e
	}
	e.state = *state
	return e
}

// RecordTaskComplete records a finished task. hasSubtasks selects the higher
// decomposition award; subtaskCount credits the day's subtask total for
// ledger purposes without awarding per-subtask points (those were awarded as
// each subtask completed).
func (e *Engagement) RecordTaskComplete(hasSubtasks bool, subtaskCount int) {
	kind := EventTaskComplete
	if hasSubtasks {
		kind = EventTaskCompleteSubtasks
	}
	e.record(kind, func(d *DailyStat) {
		e.state.TasksCompleted++
		e.state.SubtasksCompleted += subtaskCount
		d.TasksCompleted++
		d.SubtasksCompleted += subtaskCount
	})
}

// RecordSubtaskComplete records one finished subtask.
func (e *Engagement) RecordSubtaskComplete() {
	e.record(EventSubtaskComplete, func(d *DailyStat) {
		e.state.SubtasksCompleted++
		d.SubtasksCompleted++
	})
}

// RecordFocusSession records a finished focus session of the given length.
func (e *Engagement) RecordFocusSession(minutes int) {
	if minutes < 0 {
		minutes = 0
	}
	e.record(EventFocusSession, func(d *DailyStat) {
		e.state.FocusMinutes += minutes
		d.FocusMinutes += minutes
	})
}

// RecordNowCleared records that the now lane was emptied. The bonus pays at
// most once per calendar date so the lane cannot be farmed by refilling it.
func (e *Engagement) RecordNowCleared() {
	today := e.today()
	if d, ok := e.dayStat(today); ok && d.NowCleared {
		return
	}
	e.record(EventNowCleared, func(d *DailyStat) {
		d.NowCleared = true
	})
}

// UseStreakProtection re-arms the one-per-streak grace period by clearing the
// consumed flag. Exposed so the host can grant a protection reset.
func (e *Engagement) UseStreakProtection() {
	e.state.ProtectionUsed = false
	e.save()
}

func (e *Engagement) record(kind EventKind, mutate func(d *DailyStat)) {
	now := e.now()
	today := now.Format(DateLayout)

	increased := e.state.recordActivity(today)
	e.state.Points += PointsFor(kind)
	if increased {
		e.state.Points += PointsStreakBonus
	}
	mutate(e.state.statFor(today))
	e.scanAchievements(now)
	e.save()
}

// save encodes the state synchronously and writes it in the background.
// Failures are logged; in-memory state stays authoritative and the next
// mutation retries the write.
func (e *Engagement) save() {
	data, err := encodeSnapshot(&e.state)
	if err != nil {
		e.log.Printf("engagement: snapshot encode failed: %v", err)
		return
	}
	e.saves.Go(func() {
		if err := e.store.SaveSnapshot(context.Background(), data); err != nil {
			e.log.Printf("engagement: snapshot save failed: %v", err)
		}
	})
}

// Flush blocks until outstanding snapshot writes finish. Hosts call it
// before exiting or closing the store.
func (e *Engagement) Flush() {
	e.saves.Wait()
}

func (e *Engagement) today() string {
	return e.now().Format(DateLayout)
}

func (e *Engagement) dayStat(date string) (DailyStat, bool) {
	return e.state.dayStat(date)
}

// Read accessors. All derived values come from points; nothing is stored
// twice.

func (e *Engagement) Points() int        { return e.state.Points }
func (e *Engagement) Level() int         { return LevelForPoints(e.state.Points) }
func (e *Engagement) LevelName() string  { return LevelName(e.state.Points) }
func (e *Engagement) Progress() int      { return LevelProgress(e.state.Points) }
func (e *Engagement) PointsToNext() int  { return PointsToNext(e.state.Points) }
func (e *Engagement) Streak() int        { return e.state.Streak }
func (e *Engagement) LongestStreak() int { return e.state.LongestStreak }

// ProtectionAvailable reports whether the missed-day grace period is still
// unspent for the current streak.
func (e *Engagement) ProtectionAvailable() bool { return !e.state.ProtectionUsed }

// TodayStats returns the ledger entry for the current date, ok=false when
// there has been no activity today.
func (e *Engagement) TodayStats() (DailyStat, bool) {
	return e.dayStat(e.today())
}

// Week summarizes the last 7 calendar days including today.
func (e *Engagement) Week() WeekSummary {
	return e.state.weekSummary(e.today())
}

// latestWriter runs background writes and guarantees an older snapshot never
// lands after a newer one.
type latestWriter struct {
	wg   sync.WaitGroup
	mu   sync.Mutex
	seq  uint64
	done uint64
}

func (w *latestWriter) Go(write func()) {
	w.mu.Lock()
	w.seq++
	seq := w.seq
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.mu.Lock()
		defer w.mu.Unlock()
		if seq < w.done {
			// A newer snapshot already persisted; this one is stale.
			return
		}
		write()
		w.done = seq
	}()
}

func (w *latestWriter) Wait() {
	w.wg.Wait()
}
