package models

import (
	"testing"
	"time"
)

func TestTotalSeconds(t *testing.T) {
	tests := []struct {
		name     string
		steps    []ExerciseStep
		expected int
	}{
		{
			name:     "no steps",
			steps:    nil,
			expected: 0,
		},
		{
			name: "single step",
			steps: []ExerciseStep{
				{Instruction: "stretch arms", Seconds: 30},
			},
			expected: 30,
		},
		{
			name: "multiple steps",
			steps: []ExerciseStep{
				{Instruction: "roll shoulders", Seconds: 20},
				{Instruction: "neck side to side", Seconds: 20},
				{Instruction: "shake it out", Seconds: 20},
			},
			expected: 60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := Exercise{Steps: tt.steps}
			if got := ex.TotalSeconds(); got != tt.expected {
				t.Errorf("TotalSeconds() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestNewUserStats(t *testing.T) {
	stats := NewUserStats()

	if stats.HealthScore != 100 {
		t.Errorf("HealthScore = %d, want 100", stats.HealthScore)
	}
	if stats.Level != 1 {
		t.Errorf("Level = %d, want 1", stats.Level)
	}
	if stats.CurrentStreak != 0 || stats.XP != 0 {
		t.Errorf("expected zero streak and XP, got streak=%d xp=%d", stats.CurrentStreak, stats.XP)
	}
}

func TestSameCalendarDay(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 30, 0, 0, time.Local)

	tests := []struct {
		name     string
		a, b     time.Time
		expected bool
	}{
		{"same moment", base, base, true},
		{"same day different hour", base, base.Add(10 * time.Hour), true},
		{"next day", base, base.Add(24 * time.Hour), false},
		{"just before midnight vs just after", time.Date(2025, 3, 10, 23, 59, 0, 0, time.Local), time.Date(2025, 3, 11, 0, 1, 0, 0, time.Local), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameCalendarDay(tt.a, tt.b); got != tt.expected {
				t.Errorf("SameCalendarDay() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSnoozed(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	later := now.Add(15 * time.Minute)
	earlier := now.Add(-1 * time.Minute)

	tests := []struct {
		name     string
		until    *time.Time
		expected bool
	}{
		{"no snooze", nil, false},
		{"active snooze", &later, true},
		{"expired snooze", &earlier, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &ReminderState{SnoozeUntil: tt.until}
			if got := st.Snoozed(now); got != tt.expected {
				t.Errorf("Snoozed() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestQuestAllComplete(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []QuestTask
		expected bool
	}{
		{"no tasks", nil, false},
		{
			name: "one incomplete",
			tasks: []QuestTask{
				{Kind: QuestTakeBreaks, Completed: true},
				{Kind: QuestExerciseMinutes, Completed: false},
			},
			expected: false,
		},
		{
			name: "all complete",
			tasks: []QuestTask{
				{Kind: QuestTakeBreaks, Completed: true},
				{Kind: QuestCompleteExercises, Completed: true},
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &DailyQuest{Tasks: tt.tasks}
			if got := q.AllComplete(); got != tt.expected {
				t.Errorf("AllComplete() = %v, want %v", got, tt.expected)
			}
		})
	}
}
