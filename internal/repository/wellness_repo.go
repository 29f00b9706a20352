package repository

import (
	"time"

	"codefit/internal/database"
	"codefit/internal/models"
)

// WellnessRepository provides typed access to the user's wellness records.
// Read misses fall back to documented defaults rather than errors.
type WellnessRepository struct {
	db    *database.DB
	state *StateRepository
}

// NewWellnessRepository creates a new wellness repository
func NewWellnessRepository(db *database.DB) *WellnessRepository {
	return &WellnessRepository{db: db, state: NewStateRepository(db)}
}

// Stats loads the user stats aggregate, defaulting on first use
func (r *WellnessRepository) Stats() (*models.UserStats, error) {
	stats := models.NewUserStats()
	if _, err := r.state.Get(KeyUserStats, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// SaveStats persists the user stats aggregate
func (r *WellnessRepository) SaveStats(stats *models.UserStats) error {
	return r.state.Set(KeyUserStats, stats)
}

// ReminderState loads the reminder state, defaulting to a fresh record
func (r *WellnessRepository) ReminderState() (*models.ReminderState, error) {
	st := &models.ReminderState{}
	if _, err := r.state.Get(KeyReminderState, st); err != nil {
		return nil, err
	}
	return st, nil
}

// SaveReminderState persists the reminder state
func (r *WellnessRepository) SaveReminderState(st *models.ReminderState) error {
	return r.state.Set(KeyReminderState, st)
}

// Quest loads the stored daily quest, or nil if none has been generated
func (r *WellnessRepository) Quest() (*models.DailyQuest, error) {
	quest := &models.DailyQuest{}
	found, err := r.state.Get(KeyDailyQuest, quest)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return quest, nil
}

// SaveQuest persists the daily quest
func (r *WellnessRepository) SaveQuest(quest *models.DailyQuest) error {
	return r.state.Set(KeyDailyQuest, quest)
}

// Unlocked returns the set of unlocked achievement identifiers
func (r *WellnessRepository) Unlocked() (map[string]bool, error) {
	var ids []string
	if _, err := r.state.Get(KeyUnlockedAchievements, &ids); err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// SaveUnlocked persists the set of unlocked achievement identifiers
func (r *WellnessRepository) SaveUnlocked(set map[string]bool) error {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return r.state.Set(KeyUnlockedAchievements, ids)
}

// IsFirstRun reports whether the companion has never been opened before
func (r *WellnessRepository) IsFirstRun() (bool, error) {
	var opened bool
	found, err := r.state.Get(KeyFirstTime, &opened)
	if err != nil {
		return false, err
	}
	return !found || !opened, nil
}

// MarkOpened records that the companion has been opened
func (r *WellnessRepository) MarkOpened() error {
	return r.state.Set(KeyFirstTime, true)
}

// LastSyncedAt returns the timestamp of the last successful cloud sync,
// or the zero time if no sync has happened
func (r *WellnessRepository) LastSyncedAt() (time.Time, error) {
	var t time.Time
	if _, err := r.state.Get(KeyLastSyncedAt, &t); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// SaveLastSyncedAt records the timestamp of the last successful cloud sync
func (r *WellnessRepository) SaveLastSyncedAt(t time.Time) error {
	return r.state.Set(KeyLastSyncedAt, t)
}
