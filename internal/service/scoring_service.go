package service

import (
	"time"

	"codefit/internal/models"
)

// AssumedCodingMinutesPerDay is the fixed workday length the health score
// is computed against.
const AssumedCodingMinutesPerDay = 480

// ScoringService computes the daily health score from a day's activities
type ScoringService struct {
	workdayMinutes int
}

// NewScoringService creates a new scoring service
func NewScoringService() *ScoringService {
	return &ScoringService{workdayMinutes: AssumedCodingMinutesPerDay}
}

// ComputeHealthScore maps the current day's activities to a score in
// [0, 100]. It starts at 100 and subtracts independent penalty bands for
// break ratio, longest sitting streak, total exercise minutes and exercise
// variety. The result is deterministic for a given activity set and time.
func (s *ScoringService) ComputeHealthScore(activities []models.Activity, now time.Time) int {
	score := 100

	score -= s.breakRatioPenalty(len(activities))
	score -= s.sittingGapPenalty(activities, now)
	score -= exerciseMinutesPenalty(totalExerciseMinutes(activities))
	score -= varietyPenalty(distinctExercises(activities))

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func (s *ScoringService) breakRatioPenalty(breaksTaken int) int {
	recommended := s.workdayMinutes / 60
	if recommended == 0 {
		return 0
	}

	ratio := float64(breaksTaken) / float64(recommended)
	switch {
	case ratio < 0.5:
		return 40
	case ratio < 0.7:
		return 20
	case ratio < 0.9:
		return 10
	}
	return 0
}

func (s *ScoringService) sittingGapPenalty(activities []models.Activity, now time.Time) int {
	gap := s.longestSittingGapMinutes(activities, now)
	switch {
	case gap > 120:
		return 30
	case gap > 90:
		return 20
	case gap > 60:
		return 10
	}
	return 0
}

// longestSittingGapMinutes walks the day's activities sorted by completion
// time and measures the longest uninterrupted stretch without a break: the
// gap from the assumed start of the workday to the first activity, between
// consecutive activities, and from the last activity until now. With no
// activities the gap is the full assumed workday.
func (s *ScoringService) longestSittingGapMinutes(activities []models.Activity, now time.Time) float64 {
	if len(activities) == 0 {
		return float64(s.workdayMinutes)
	}

	sorted := make([]models.Activity, len(activities))
	copy(sorted, activities)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].CompletedAt.Before(sorted[j-1].CompletedAt); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	workdayStart := now.Add(-time.Duration(s.workdayMinutes) * time.Minute)

	longest := sorted[0].StartedAt.Sub(workdayStart).Minutes()
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].StartedAt.Sub(sorted[i-1].CompletedAt).Minutes()
		if gap > longest {
			longest = gap
		}
	}
	if tail := now.Sub(sorted[len(sorted)-1].CompletedAt).Minutes(); tail > longest {
		longest = tail
	}

	if longest < 0 {
		longest = 0
	}
	return longest
}

func exerciseMinutesPenalty(minutes float64) int {
	switch {
	case minutes < 10:
		return 15
	case minutes < 20:
		return 8
	}
	return 0
}

func varietyPenalty(distinct int) int {
	switch {
	case distinct < 2:
		return 15
	case distinct < 3:
		return 8
	}
	return 0
}

func totalExerciseMinutes(activities []models.Activity) float64 {
	seconds := 0
	for _, a := range activities {
		seconds += a.Duration
	}
	return float64(seconds) / 60
}

func distinctExercises(activities []models.Activity) int {
	seen := make(map[string]bool)
	for _, a := range activities {
		seen[a.ExerciseID] = true
	}
	return len(seen)
}
