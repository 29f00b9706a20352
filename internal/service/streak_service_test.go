package service

import (
	"testing"
	"time"

	"codefit/internal/models"
)

func activityOn(day time.Time) models.Activity {
	return models.Activity{ID: "a", CreatedAt: day}
}

func TestStreakFirstActivity(t *testing.T) {
	svc := NewStreakService()
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local)

	stats := models.NewUserStats()
	svc.Evaluate(stats, []models.Activity{activityOn(now)}, now)

	if stats.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", stats.CurrentStreak)
	}
	if stats.LongestStreak != 1 {
		t.Errorf("LongestStreak = %d, want 1", stats.LongestStreak)
	}
}

func TestStreakContinuesFromYesterday(t *testing.T) {
	svc := NewStreakService()
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local)

	stats := models.NewUserStats()
	stats.CurrentStreak = 4
	stats.LongestStreak = 6
	stats.LastStreakDay = models.DayKey(now.AddDate(0, 0, -1))

	activities := []models.Activity{
		activityOn(now.AddDate(0, 0, -1)),
		activityOn(now),
	}
	svc.Evaluate(stats, activities, now)

	if stats.CurrentStreak != 5 {
		t.Errorf("CurrentStreak = %d, want 5", stats.CurrentStreak)
	}
	if stats.LongestStreak != 6 {
		t.Errorf("LongestStreak = %d, want 6", stats.LongestStreak)
	}
}

func TestStreakSameDayIdempotent(t *testing.T) {
	svc := NewStreakService()
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local)

	stats := models.NewUserStats()
	activities := []models.Activity{activityOn(now)}
	svc.Evaluate(stats, activities, now)

	// A second activity recorded the same day must not increment again
	activities = append(activities, activityOn(now.Add(2*time.Hour)))
	svc.Evaluate(stats, activities, now.Add(2*time.Hour))

	if stats.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d after two same-day activities, want 1", stats.CurrentStreak)
	}
}

func TestStreakResetAfterMissedDays(t *testing.T) {
	svc := NewStreakService()
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local)

	stats := models.NewUserStats()
	stats.CurrentStreak = 5
	stats.LongestStreak = 5

	// No activity today or yesterday
	activities := []models.Activity{activityOn(now.AddDate(0, 0, -3))}
	svc.Evaluate(stats, activities, now)

	if stats.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0 after missed days", stats.CurrentStreak)
	}
	if stats.LongestStreak != 5 {
		t.Errorf("LongestStreak = %d, want 5 preserved", stats.LongestStreak)
	}
}

func TestStreakUnchangedWhenGapButActiveToday(t *testing.T) {
	svc := NewStreakService()
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local)

	stats := models.NewUserStats()
	stats.CurrentStreak = 3
	stats.LongestStreak = 3

	// Activity today, none yesterday, streak > 0: unchanged
	activities := []models.Activity{
		activityOn(now.AddDate(0, 0, -2)),
		activityOn(now),
	}
	svc.Evaluate(stats, activities, now)

	if stats.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3 unchanged", stats.CurrentStreak)
	}
}

func TestStreakNoChangeOnEmptyDayWithActiveYesterday(t *testing.T) {
	svc := NewStreakService()
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.Local)

	stats := models.NewUserStats()
	stats.CurrentStreak = 2

	// Nothing today but yesterday was active: the streak survives the check
	activities := []models.Activity{activityOn(now.AddDate(0, 0, -1))}
	svc.Evaluate(stats, activities, now)

	if stats.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", stats.CurrentStreak)
	}
}
