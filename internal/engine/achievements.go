package engine

import "time"

// Achievement is a badge definition plus its unlock timestamp, if earned.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Icon        string
	UnlockedAt  *time.Time
}

type achievementDef struct {
	ID          string
	Title       string
	Description string
	Icon        string
	earned      func(s *State) bool
}

// catalog is the full achievement set. Order matters: detection scans it top
// to bottom, so unlocks from a single event queue in this order. Every
// predicate is monotonic in its counter; once earned it can never un-earn.
var catalog = []achievementDef{
	taskCountDef("tasks_1", "First One Done", "Complete your first task", "✅", 1),
	taskCountDef("tasks_10", "Ten Down", "Complete 10 tasks", "📋", 10),
	taskCountDef("tasks_50", "Half Century", "Complete 50 tasks", "🏅", 50),
	taskCountDef("tasks_100", "Century Club", "Complete 100 tasks", "🏆", 100),

	streakDef("streak_3", "Warming Up", "Keep a 3-day streak", "🔥", 3),
	streakDef("streak_7", "Full Week", "Keep a 7-day streak", "⚡", 7),
	streakDef("streak_30", "Unstoppable", "Keep a 30-day streak", "🌋", 30),

	focusDef("focus_60", "Deep Hour", "Log 60 focus minutes", "⏳", 60),
	focusDef("focus_600", "Ten Deep Hours", "Log 600 focus minutes", "🧠", 600),

	levelDef("level_mover", "Mover", "Reach the mover level", "🚀", 2),
	levelDef("level_operator", "Operator", "Reach the operator level", "⭐", 4),
	levelDef("level_machine", "Machine", "Reach the top level", "💫", len(Levels)),
}

func taskCountDef(id, title, desc, icon string, count int) achievementDef {
	return achievementDef{ID: id, Title: title, Description: desc, Icon: icon,
		earned: func(s *State) bool { return s.TasksCompleted >= count }}
}

func streakDef(id, title, desc, icon string, days int) achievementDef {
	return achievementDef{ID: id, Title: title, Description: desc, Icon: icon,
		earned: func(s *State) bool { return s.LongestStreak >= days }}
}

func focusDef(id, title, desc, icon string, minutes int) achievementDef {
	return achievementDef{ID: id, Title: title, Description: desc, Icon: icon,
		earned: func(s *State) bool { return s.FocusMinutes >= minutes }}
}

func levelDef(id, title, desc, icon string, level int) achievementDef {
	return achievementDef{ID: id, Title: title, Description: desc, Icon: icon,
		earned: func(s *State) bool { return LevelForPoints(s.Points) >= level }}
}

func (d achievementDef) toAchievement(unlockedAt *time.Time) Achievement {
	return Achievement{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Icon:        d.Icon,
		UnlockedAt:  unlockedAt,
	}
}

func defByID(id string) (achievementDef, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return achievementDef{}, false
}

// scanAchievements stamps and enqueues every newly satisfied achievement, in
// catalog order. Already unlocked entries are never re-triggered.
func (e *Engagement) scanAchievements(now time.Time) {
	for _, def := range catalog {
		if _, ok := e.state.Unlocked[def.ID]; ok {
			continue
		}
		if !def.earned(&e.state) {
			continue
		}
		e.state.Unlocked[def.ID] = now
		e.state.PendingUnlocks = append(e.state.PendingUnlocks, def.ID)
	}
}

// Achievements returns the full catalog with unlock timestamps applied.
func (e *Engagement) Achievements() []Achievement {
	out := make([]Achievement, 0, len(catalog))
	for _, def := range catalog {
		var at *time.Time
		if t, ok := e.state.Unlocked[def.ID]; ok {
			v := t
			at = &v
		}
		out = append(out, def.toAchievement(at))
	}
	return out
}

// CountUnlocked returns how many achievements have been earned.
func (e *Engagement) CountUnlocked() int {
	n := 0
	for _, def := range catalog {
		if _, ok := e.state.Unlocked[def.ID]; ok {
			n++
		}
	}
	return n
}

// CountTotal returns the catalog size.
func (e *Engagement) CountTotal() int {
	return len(catalog)
}

// PendingUnlock returns the oldest unacknowledged unlock. The queue head
// keeps surfacing until DismissUnlock advances past it, so the host sees one
// unlock at a time in detection order, even across process restarts. Pure
// read; never mutates state.
func (e *Engagement) PendingUnlock() (Achievement, bool) {
	for _, id := range e.state.PendingUnlocks {
		def, ok := defByID(id)
		if !ok {
			continue
		}
		at := e.state.Unlocked[id]
		return def.toAchievement(&at), true
	}
	return Achievement{}, false
}

// DismissUnlock acknowledges the surfaced unlock, letting the next queued one
// surface, and persists the advance. Dismissing with nothing pending is a
// no-op.
func (e *Engagement) DismissUnlock() {
	if len(e.state.PendingUnlocks) == 0 {
		return
	}
	e.state.PendingUnlocks = e.state.PendingUnlocks[1:]
	e.save()
}
