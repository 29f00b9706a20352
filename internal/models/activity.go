package models

import "time"

// Trigger values describe what initiated an activity.
const (
	TriggerManual   = "manual"
	TriggerReminder = "reminder"
	TriggerCommit   = "commit"
	TriggerQuest    = "quest"
)

// PointsBreakdown records how the points for an activity were composed
type PointsBreakdown struct {
	Base       int     `json:"base"`
	Bonus      int     `json:"bonus"`
	Multiplier float64 `json:"multiplier"`
	Total      int     `json:"total"`
}

// Activity represents one completed exercise or break event.
// Activities are immutable once created: they are only appended to the
// activity log and trimmed from the head when the log exceeds its cap.
type Activity struct {
	ID          string          `json:"id"`
	ExerciseID  string          `json:"exercise_id"`
	Name        string          `json:"name"`
	Duration    int             `json:"duration_seconds"`
	Calories    int             `json:"calories"`
	Points      PointsBreakdown `json:"points"`
	Trigger     string          `json:"trigger"`
	Source      string          `json:"source"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt time.Time       `json:"completed_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SameCalendarDay reports whether two times fall on the same local calendar day
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayKey formats a time as a calendar-day key (local time)
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
