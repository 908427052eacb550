package engine

import (
	"encoding/json"
	"fmt"
	"time"
)

const snapshotVersion = 1

// snapshotV1 is the persisted shape of State. Fields are overlaid onto
// defaults on decode so snapshots written before a field existed keep
// working, and achievement ids added after the snapshot was written simply
// stay locked.
type snapshotV1 struct {
	Version           int                  `json:"version"`
	Streak            int                  `json:"streak"`
	LongestStreak     int                  `json:"longestStreak"`
	TasksCompleted    int                  `json:"tasksCompleted"`
	SubtasksCompleted int                  `json:"subtasksCompleted"`
	FocusMinutes      int                  `json:"focusMinutes"`
	Points            int                  `json:"points"`
	LastActiveDate    string               `json:"lastActiveDate"`
	ProtectionUsed    bool                 `json:"protectionUsed"`
	Days              []DailyStat          `json:"days"`
	Unlocked          map[string]time.Time `json:"unlocked"`
	PendingUnlocks    []string             `json:"pendingUnlocks"`
}

func encodeSnapshot(s *State) ([]byte, error) {
	snap := snapshotV1{
		Version:           snapshotVersion,
		Streak:            s.Streak,
		LongestStreak:     s.LongestStreak,
		TasksCompleted:    s.TasksCompleted,
		SubtasksCompleted: s.SubtasksCompleted,
		FocusMinutes:      s.FocusMinutes,
		Points:            s.Points,
		LastActiveDate:    s.LastActiveDate,
		ProtectionUsed:    s.ProtectionUsed,
		Days:              s.Days,
		Unlocked:          s.Unlocked,
		PendingUnlocks:    s.PendingUnlocks,
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func decodeSnapshot(data []byte) (*State, error) {
	var snap snapshotV1
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version > snapshotVersion {
		return nil, fmt.Errorf("decode snapshot: unsupported version %d", snap.Version)
	}

	s := defaultState()
	s.Streak = clampNonNegative(snap.Streak)
	s.LongestStreak = clampNonNegative(snap.LongestStreak)
	if s.LongestStreak < s.Streak {
		s.LongestStreak = s.Streak
	}
	s.TasksCompleted = clampNonNegative(snap.TasksCompleted)
	s.SubtasksCompleted = clampNonNegative(snap.SubtasksCompleted)
	s.FocusMinutes = clampNonNegative(snap.FocusMinutes)
	s.Points = clampNonNegative(snap.Points)
	if _, err := time.Parse(DateLayout, snap.LastActiveDate); err == nil {
		s.LastActiveDate = snap.LastActiveDate
	}
	s.ProtectionUsed = snap.ProtectionUsed

	for _, d := range snap.Days {
		if _, err := time.Parse(DateLayout, d.Date); err != nil {
			continue
		}
		s.Days = append(s.Days, d)
	}
	if len(s.Days) > LedgerCap {
		s.Days = s.Days[len(s.Days)-LedgerCap:]
	}

	// Only ids the current catalog knows survive; stale entries from removed
	// definitions are dropped.
	known := map[string]bool{}
	for _, def := range catalog {
		known[def.ID] = true
	}
	for id, at := range snap.Unlocked {
		if known[id] {
			s.Unlocked[id] = at
		}
	}
	for _, id := range snap.PendingUnlocks {
		if known[id] {
			s.PendingUnlocks = append(s.PendingUnlocks, id)
		}
	}

	return &s, nil
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
