package service

import "codefit/internal/models"

// DefaultExercises returns the built-in exercise catalog. Catalog entries
// are read-only reference data, not user state.
func DefaultExercises() []models.Exercise {
	return []models.Exercise{
		{
			ID:       "neck-stretch",
			Name:     "Neck Stretch",
			Category: models.CategoryOneMinute,
			Steps: []models.ExerciseStep{
				{Instruction: "Tilt your head toward your right shoulder", Seconds: 15},
				{Instruction: "Tilt your head toward your left shoulder", Seconds: 15},
				{Instruction: "Slowly roll your head in a full circle", Seconds: 30},
			},
			Calories: 4,
			Benefits: []string{"relieves neck tension", "improves posture"},
		},
		{
			ID:       "eye-rest",
			Name:     "Eye Rest",
			Category: models.CategoryOneMinute,
			Steps: []models.ExerciseStep{
				{Instruction: "Look at something 20 feet away", Seconds: 20},
				{Instruction: "Close your eyes and breathe", Seconds: 20},
				{Instruction: "Blink rapidly, then refocus on the distance", Seconds: 20},
			},
			Calories: 2,
			Benefits: []string{"reduces eye strain", "prevents dry eyes"},
		},
		{
			ID:       "shoulder-roll",
			Name:     "Shoulder Rolls",
			Category: models.CategoryOneMinute,
			Steps: []models.ExerciseStep{
				{Instruction: "Roll your shoulders backward slowly", Seconds: 30},
				{Instruction: "Roll your shoulders forward slowly", Seconds: 30},
			},
			Calories: 5,
			Benefits: []string{"loosens shoulder muscles"},
		},
		{
			ID:       "desk-stretch",
			Name:     "Desk Stretch Routine",
			Category: models.CategoryThreeMinute,
			Steps: []models.ExerciseStep{
				{Instruction: "Stand up and reach for the ceiling", Seconds: 30},
				{Instruction: "Bend forward and let your arms hang", Seconds: 30},
				{Instruction: "Stretch your right arm across your chest", Seconds: 30},
				{Instruction: "Stretch your left arm across your chest", Seconds: 30},
				{Instruction: "Clasp your hands behind your back and lift", Seconds: 30},
				{Instruction: "Shake out your arms and legs", Seconds: 30},
			},
			Calories: 12,
			Benefits: []string{"full upper-body release", "boosts circulation"},
		},
		{
			ID:       "office-walk",
			Name:     "Walk Break",
			Category: models.CategoryThreeMinute,
			Steps: []models.ExerciseStep{
				{Instruction: "Stand up and walk away from your desk", Seconds: 60},
				{Instruction: "Keep walking, swing your arms", Seconds: 60},
				{Instruction: "Walk back, taking deep breaths", Seconds: 60},
			},
			Calories: 15,
			Benefits: []string{"gets blood flowing", "clears the mind"},
		},
		{
			ID:       "energize",
			Name:     "Energizer Circuit",
			Category: models.CategoryFiveMinute,
			Steps: []models.ExerciseStep{
				{Instruction: "March in place", Seconds: 60},
				{Instruction: "Do slow squats", Seconds: 60},
				{Instruction: "Do calf raises", Seconds: 60},
				{Instruction: "Do wall push-ups", Seconds: 60},
				{Instruction: "Stretch and cool down", Seconds: 60},
			},
			Calories: 30,
			Benefits: []string{"raises heart rate", "counteracts sitting"},
		},
		{
			ID:       "wrist-relief",
			Name:     "Wrist and Hand Relief",
			Category: models.CategoryTargeted,
			Steps: []models.ExerciseStep{
				{Instruction: "Extend your right arm, pull fingers back gently", Seconds: 20},
				{Instruction: "Extend your left arm, pull fingers back gently", Seconds: 20},
				{Instruction: "Make fists and roll your wrists", Seconds: 20},
				{Instruction: "Spread your fingers wide, then relax", Seconds: 20},
			},
			Calories: 3,
			Benefits: []string{"prevents RSI", "relieves typing strain"},
		},
		{
			ID:       "back-relief",
			Name:     "Lower Back Relief",
			Category: models.CategoryTargeted,
			Steps: []models.ExerciseStep{
				{Instruction: "Stand and place hands on lower back, lean back gently", Seconds: 20},
				{Instruction: "Seated, twist your torso to the right", Seconds: 20},
				{Instruction: "Seated, twist your torso to the left", Seconds: 20},
				{Instruction: "Hug your knees to your chest one at a time", Seconds: 30},
			},
			Calories: 6,
			Benefits: []string{"eases lower back pain"},
		},
	}
}

// ExerciseByID finds a catalog exercise by identifier
func ExerciseByID(id string) *models.Exercise {
	for _, ex := range DefaultExercises() {
		if ex.ID == id {
			return &ex
		}
	}
	return nil
}

// ExercisesByCategory returns the catalog exercises in a duration category
func ExercisesByCategory(category string) []models.Exercise {
	var out []models.Exercise
	for _, ex := range DefaultExercises() {
		if ex.Category == category {
			out = append(out, ex)
		}
	}
	return out
}

// CategoryForMinutes maps a requested break length to a duration category
func CategoryForMinutes(minutes int) string {
	switch {
	case minutes <= 1:
		return models.CategoryOneMinute
	case minutes <= 3:
		return models.CategoryThreeMinute
	default:
		return models.CategoryFiveMinute
	}
}

// DefaultAchievements returns the built-in achievement catalog
func DefaultAchievements() []models.Achievement {
	return []models.Achievement{
		{
			ID:          "first-steps",
			Name:        "First Steps",
			Description: "Complete your first exercise",
			Badge:       "🌱",
			XPReward:    10,
			Requirement: models.Requirement{Kind: models.RequireTotalExercises, Threshold: 1},
		},
		{
			ID:          "getting-going",
			Name:        "Getting Going",
			Description: "Complete 10 exercises",
			Badge:       "🏃",
			XPReward:    25,
			Requirement: models.Requirement{Kind: models.RequireTotalExercises, Threshold: 10},
		},
		{
			ID:          "half-century",
			Name:        "Half Century",
			Description: "Complete 50 exercises",
			Badge:       "🎖",
			XPReward:    75,
			Requirement: models.Requirement{Kind: models.RequireTotalExercises, Threshold: 50},
		},
		{
			ID:          "centurion",
			Name:        "Centurion",
			Description: "Complete 100 exercises",
			Badge:       "🏆",
			XPReward:    150,
			Requirement: models.Requirement{Kind: models.RequireTotalExercises, Threshold: 100},
		},
		{
			ID:          "three-day-streak",
			Name:        "Warming Up",
			Description: "Keep a 3-day streak",
			Badge:       "🔥",
			XPReward:    20,
			Requirement: models.Requirement{Kind: models.RequireStreak, Threshold: 3},
		},
		{
			ID:          "week-streak",
			Name:        "Consistent",
			Description: "Keep a 7-day streak",
			Badge:       "⚡",
			XPReward:    50,
			Requirement: models.Requirement{Kind: models.RequireStreak, Threshold: 7},
		},
		{
			ID:          "month-streak",
			Name:        "Unstoppable",
			Description: "Keep a 30-day streak",
			Badge:       "💎",
			XPReward:    200,
			Requirement: models.Requirement{Kind: models.RequireStreak, Threshold: 30},
		},
		{
			ID:          "early-bird",
			Name:        "Early Bird",
			Description: "Exercise between 6 and 8 in the morning",
			Badge:       "🐦",
			XPReward:    15,
			Requirement: models.Requirement{Kind: models.RequireTimeOfDay, FromHour: 6, ToHour: 8},
		},
	}
}
