package service

import (
	"time"

	"codefit/internal/models"
)

// StreakService rolls daily activity into a consecutive-day counter
type StreakService struct{}

// NewStreakService creates a new streak service
func NewStreakService() *StreakService {
	return &StreakService{}
}

// Evaluate applies the streak transition for the given day. It derives
// "activity exists today" and "activity exists yesterday" from the activity
// log by calendar-day match on creation timestamps.
//
// The day a streak increment was applied is recorded on the stats so the
// transition is idempotent across multiple activities on the same day: the
// second activity of a day must not increment the streak again.
func (s *StreakService) Evaluate(stats *models.UserStats, activities []models.Activity, now time.Time) {
	hasToday := anyActivityOn(activities, now)
	hasYesterday := anyActivityOn(activities, now.AddDate(0, 0, -1))
	today := models.DayKey(now)

	switch {
	case hasToday && stats.LastStreakDay == today:
		// Already counted today

	case hasToday && (hasYesterday || stats.CurrentStreak == 0):
		stats.CurrentStreak++
		stats.LastStreakDay = today
		if stats.CurrentStreak > stats.LongestStreak {
			stats.LongestStreak = stats.CurrentStreak
		}

	case hasToday:
		// Yesterday was missed but the streak counter is stale; leave it
		// until the missed-day reset below observes two empty days.

	case !hasYesterday && stats.CurrentStreak > 0:
		stats.CurrentStreak = 0
	}
}

func anyActivityOn(activities []models.Activity, day time.Time) bool {
	for _, a := range activities {
		if models.SameCalendarDay(a.CreatedAt, day) {
			return true
		}
	}
	return false
}
