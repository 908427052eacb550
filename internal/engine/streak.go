package engine

import "time"

// DateLayout is the calendar-date key format. Day comparisons are done on
// these strings, not timestamps, so day boundaries stay timezone-naive.
const DateLayout = "2006-01-02"

func daysBetween(from, to string) int {
	a, err := time.Parse(DateLayout, from)
	if err != nil {
		return -1
	}
	b, err := time.Parse(DateLayout, to)
	if err != nil {
		return -1
	}
	return int(b.Sub(a).Hours() / 24)
}

// recordActivity runs one streak transition for activity on today and
// reports whether the streak extended, which earns the streak bonus. At most
// one increment per calendar date; a single missed day is forgiven once per
// streak via the protection flag. Starting (or restarting) at 1 is not an
// extension and pays no bonus.
func (s *State) recordActivity(today string) bool {
	if s.LastActiveDate == today {
		return false
	}

	extended := false
	switch gap := daysBetween(s.LastActiveDate, today); {
	case s.LastActiveDate == "":
		s.Streak = 1
	case gap == 1:
		s.Streak++
		s.ProtectionUsed = false
		extended = true
	case gap == 2 && !s.ProtectionUsed:
		s.Streak++
		s.ProtectionUsed = true
		extended = true
	default:
		s.Streak = 1
		s.ProtectionUsed = false
	}

	s.LastActiveDate = today
	if s.Streak > s.LongestStreak {
		s.LongestStreak = s.Streak
	}
	return extended
}
