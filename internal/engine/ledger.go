package engine

// LedgerCap bounds the daily ledger to the most recent distinct dates.
const LedgerCap = 30

// DailyStat aggregates activity for one calendar date.
type DailyStat struct {
	Date              string `json:"date"`
	TasksCompleted    int    `json:"tasksCompleted"`
	SubtasksCompleted int    `json:"subtasksCompleted"`
	FocusMinutes      int    `json:"focusMinutes"`
	NowCleared        bool   `json:"nowCleared"`
}

// statFor returns the ledger entry for date, creating it (and evicting the
// oldest entries past the cap) on first activity of a new day.
func (s *State) statFor(date string) *DailyStat {
	for i := range s.Days {
		if s.Days[i].Date == date {
			return &s.Days[i]
		}
	}
	s.Days = append(s.Days, DailyStat{Date: date})
	if len(s.Days) > LedgerCap {
		s.Days = s.Days[len(s.Days)-LedgerCap:]
	}
	return &s.Days[len(s.Days)-1]
}

// dayStat returns the entry for date without creating one.
func (s *State) dayStat(date string) (DailyStat, bool) {
	for i := range s.Days {
		if s.Days[i].Date == date {
			return s.Days[i], true
		}
	}
	return DailyStat{}, false
}

// WeekSummary aggregates the 7 calendar days ending at the date it was
// computed for.
type WeekSummary struct {
	TasksCompleted int
	FocusMinutes   int
	ActiveDays     int
}

func (s *State) weekSummary(today string) WeekSummary {
	var sum WeekSummary
	for i := range s.Days {
		d := s.Days[i].Date
		gap := daysBetween(d, today)
		if gap < 0 || gap > 6 {
			continue
		}
		sum.TasksCompleted += s.Days[i].TasksCompleted
		sum.FocusMinutes += s.Days[i].FocusMinutes
		sum.ActiveDays++
	}
	return sum
}
