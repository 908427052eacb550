package engine

import (
	"time"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/config"
	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/storage"
)

// Promotion records one lane advance produced by a tick.
type Promotion struct {
	TaskID int64
	From   Lane
	To     Lane
	DueAt  time.Time
}

// Promote evaluates every task against now and returns one promotion step per
// overdue open task. Completed tasks and tasks without a due timestamp are
// skipped. The promoted due timestamp is recomputed for the target lane, so a
// task promoted to now will not promote again until the next day boundary.
func Promote(tasks []storage.Task, now time.Time, timings config.LaneTimings) []Promotion {
	var out []Promotion
	for i := range tasks {
		t := &tasks[i]
		if t.Done() || t.DueAt == nil {
			continue
		}
		if now.Before(*t.DueAt) {
			continue
		}
		next, ok := NextLane(Lane(t.Lane))
		if !ok {
			continue
		}
		out = append(out, Promotion{
			TaskID: t.ID,
			From:   Lane(t.Lane),
			To:     next,
			DueAt:  DueAt(now, next, timings),
		})
	}
	return out
}
