package models

// Requirement kinds for achievements
const (
	RequireStreak         = "streak"
	RequireTotalExercises = "total_exercises"
	RequireTimeOfDay      = "time_of_day"
)

// Requirement is the predicate an achievement is evaluated against
type Requirement struct {
	Kind      string
	Threshold int
	// FromHour/ToHour bound a local time-of-day window [FromHour, ToHour)
	// for RequireTimeOfDay requirements.
	FromHour int
	ToHour   int
}

// Achievement is a static catalog entry. Unlocks are monotonic: once an
// achievement identifier enters the unlocked set it is never revoked.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Badge       string
	XPReward    int
	Requirement Requirement
}
