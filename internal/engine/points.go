package engine

// EventKind names one recordable engagement event.
type EventKind string

const (
	EventTaskComplete         EventKind = "task_complete"
	EventTaskCompleteSubtasks EventKind = "task_complete_subtasks"
	EventSubtaskComplete      EventKind = "subtask_complete"
	EventFocusSession         EventKind = "focus_session"
	EventNowCleared           EventKind = "now_cleared"
	EventStreakBonus          EventKind = "streak_bonus"
)

// Static award table. Completing a task that was broken into subtasks pays
// more than a plain completion to reward decomposition.
const (
	PointsTask             = 10
	PointsTaskWithSubtasks = 15
	PointsSubtask          = 3
	PointsFocusSession     = 5
	PointsNowCleared       = 20
	PointsStreakBonus      = 5
)

// PointsFor returns the fixed award for an event kind, 0 for unknown kinds.
func PointsFor(kind EventKind) int {
	switch kind {
	case EventTaskComplete:
		return PointsTask
	case EventTaskCompleteSubtasks:
		return PointsTaskWithSubtasks
	case EventSubtaskComplete:
		return PointsSubtask
	case EventFocusSession:
		return PointsFocusSession
	case EventNowCleared:
		return PointsNowCleared
	case EventStreakBonus:
		return PointsStreakBonus
	default:
		return 0
	}
}

// LevelDef is one rung of the level ladder.
type LevelDef struct {
	Name      string
	Threshold int
}

// Levels is the fixed ladder, ordered by threshold. Level numbers are
// 1-based indexes into this slice.
var Levels = []LevelDef{
	{Name: "starter", Threshold: 0},
	{Name: "mover", Threshold: 50},
	{Name: "finisher", Threshold: 150},
	{Name: "operator", Threshold: 400},
	{Name: "closer", Threshold: 800},
	{Name: "machine", Threshold: 1500},
}

// LevelForPoints returns the highest level whose threshold is <= points.
func LevelForPoints(points int) int {
	level := 1
	for i, def := range Levels {
		if points >= def.Threshold {
			level = i + 1
		}
	}
	return level
}

// LevelName returns the display name for the level reached at points.
func LevelName(points int) string {
	return Levels[LevelForPoints(points)-1].Name
}

// LevelProgress returns 0-100 progress through the current level. The top
// level reports 100.
func LevelProgress(points int) int {
	level := LevelForPoints(points)
	if level >= len(Levels) {
		return 100
	}
	cur := Levels[level-1].Threshold
	next := Levels[level].Threshold
	p := 100 * (points - cur) / (next - cur)
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return p
}

// PointsToNext returns how many points remain until the next level, 0 at the
// top of the ladder.
func PointsToNext(points int) int {
	level := LevelForPoints(points)
	if level >= len(Levels) {
		return 0
	}
	return Levels[level].Threshold - points
}
