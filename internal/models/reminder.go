package models

import "time"

// ReminderState is the volatile-but-persisted state consulted on every
// reminder tick and updated on every user action.
type ReminderState struct {
	Paused          bool       `json:"paused"`
	SnoozeUntil     *time.Time `json:"snooze_until,omitempty"`
	LastCommitAt    *time.Time `json:"last_commit_at,omitempty"`
	WorkMinutes     int        `json:"work_minutes"`
	BreaksToday     int        `json:"breaks_today"`
	LastRolloverDay string     `json:"last_rollover_day,omitempty"`
}

// Snoozed reports whether a snooze window is active at the given time
func (s *ReminderState) Snoozed(now time.Time) bool {
	return s.SnoozeUntil != nil && now.Before(*s.SnoozeUntil)
}
