package models

// Duration categories for exercises. The category drives base XP and the
// action sets offered by reminder prompts.
const (
	CategoryOneMinute   = "1min"
	CategoryThreeMinute = "3min"
	CategoryFiveMinute  = "5min"
	CategoryTargeted    = "targeted"
)

// ExerciseStep is one timed instruction within an exercise
type ExerciseStep struct {
	Instruction string `json:"instruction"`
	Seconds     int    `json:"seconds"`
}

// Exercise is read-only catalog data describing a guided exercise
type Exercise struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Category string         `json:"category"`
	Steps    []ExerciseStep `json:"steps"`
	Calories int            `json:"calories"`
	Benefits []string       `json:"benefits"`
}

// TotalSeconds returns the declared duration of the exercise, the sum of
// its step durations. Completed activities record this value rather than
// wall-clock elapsed time.
func (e *Exercise) TotalSeconds() int {
	total := 0
	for _, s := range e.Steps {
		total += s.Seconds
	}
	return total
}
