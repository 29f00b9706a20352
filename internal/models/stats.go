package models

// UserStats is the single mutable aggregate record for a user. It is owned
// by the tracker, mutated in place by the scoring, streak and leveling
// engines, and persisted after every mutation.
type UserStats struct {
	HealthScore     int    `json:"health_score"`
	CurrentStreak   int    `json:"current_streak"`
	LongestStreak   int    `json:"longest_streak"`
	TotalExercises  int    `json:"total_exercises"`
	TotalMinutes    int    `json:"total_minutes"`
	TotalPoints     int    `json:"total_points"`
	AvailablePoints int    `json:"available_points"`
	Level           int    `json:"level"`
	XP              int    `json:"xp"`
	LastStreakDay   string `json:"last_streak_day,omitempty"`
}

// NewUserStats returns stats with first-use defaults
func NewUserStats() *UserStats {
	return &UserStats{
		HealthScore: 100,
		Level:       1,
	}
}
