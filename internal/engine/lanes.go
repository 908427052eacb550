package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/config"
)

// Lane is an urgency bucket. Ordering, least to most urgent:
// park < later < soon < now.
type Lane string

const (
	LanePark  Lane = "park"
	LaneLater Lane = "later"
	LaneSoon  Lane = "soon"
	LaneNow   Lane = "now"
)

// DefaultLane is used when user input is missing/invalid.
const DefaultLane Lane = LaneLater

func (l Lane) IsValid() bool {
	switch l {
	case LanePark, LaneLater, LaneSoon, LaneNow:
		return true
	default:
		return false
	}
}

// Rank returns the urgency order, 0 (park) through 3 (now).
func (l Lane) Rank() int {
	switch l {
	case LanePark:
		return 0
	case LaneLater:
		return 1
	case LaneSoon:
		return 2
	case LaneNow:
		return 3
	default:
		return -1
	}
}

func ParseLane(input string) (Lane, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	l := Lane(s)
	if !l.IsValid() {
		return "", fmt.Errorf("invalid lane: %q (park|later|soon|now)", input)
	}
	return l, nil
}

// NextLane returns the promotion target for an overdue task. Only
// later→soon and soon→now promote; parked tasks wait for a manual review and
// the now lane has nowhere left to go.
func NextLane(l Lane) (Lane, bool) {
	switch l {
	case LaneLater:
		return LaneSoon, true
	case LaneSoon:
		return LaneNow, true
	default:
		return l, false
	}
}

// DueAt computes the due timestamp for a task entering the lane at now.
func DueAt(now time.Time, lane Lane, t config.LaneTimings) time.Time {
	switch lane {
	case LaneNow:
		y, m, d := now.Date()
		return time.Date(y, m, d, 23, 59, 59, 0, now.Location())
	case LaneSoon:
		return now.AddDate(0, 0, t.SoonDays)
	case LaneLater:
		return now.AddDate(0, 0, t.LaterDays)
	default:
		return now.AddDate(0, 0, config.ParkReviewDays)
	}
}
