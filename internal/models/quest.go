package models

// Quest task kinds
const (
	QuestCompleteExercises = "complete_exercises"
	QuestTakeBreaks        = "take_breaks"
	QuestExerciseMinutes   = "exercise_minutes"
	QuestDistinctExercises = "distinct_exercises"
	QuestMorningExercise   = "morning_exercise"
)

// QuestTask is one task within a daily quest
type QuestTask struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Target      int    `json:"target"`
	Progress    int    `json:"progress"`
	XPReward    int    `json:"xp_reward"`
	Completed   bool   `json:"completed"`
}

// DailyQuest is a set of tasks generated fresh each calendar day. A quest
// from a prior day is discarded and regenerated, never carried over.
type DailyQuest struct {
	Date         string      `json:"date"`
	Tasks        []QuestTask `json:"tasks"`
	BonusGranted bool        `json:"bonus_granted"`
}

// AllComplete reports whether every task in the quest is complete
func (q *DailyQuest) AllComplete() bool {
	if len(q.Tasks) == 0 {
		return false
	}
	for _, t := range q.Tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}
