package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"codefit/internal/database"
)

// Keys for records in the app_state table
const (
	KeyActivities           = "activities"
	KeyUserStats            = "userStats"
	KeyReminderState        = "reminderState"
	KeyUnlockedAchievements = "unlockedAchievements"
	KeyDailyQuest           = "dailyQuest"
	KeyGitCommits           = "gitCommits"
	KeyFirstTime            = "firstTime"
	KeyCloudToken           = "cloudToken"
	KeyLicense              = "license"
	KeyLastSyncedAt         = "lastSyncedAt"
	KeyAPISecretHash        = "apiSecretHash"
)

// StateRepository provides get/set access to JSON-serialized records in the
// app_state table. A read miss is reported as found=false, never an error.
type StateRepository struct {
	db *database.DB
}

// NewStateRepository creates a new state repository
func NewStateRepository(db *database.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Get unmarshals the record stored under key into out. It returns false if
// no record exists, leaving out untouched.
func (r *StateRepository) Get(key string, out interface{}) (bool, error) {
	return getState(r.db, key, out)
}

// Set marshals v and upserts it under key
func (r *StateRepository) Set(key string, v interface{}) error {
	return setState(r.db, key, v)
}

// Begin starts a transaction for multi-step read-modify-write sequences
func (r *StateRepository) Begin() (*database.Tx, error) {
	return r.db.Begin()
}

func getState(q database.DBTX, key string, out interface{}) (bool, error) {
	var raw string
	err := q.QueryRow("SELECT value FROM app_state WHERE name = ?", key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read state %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("failed to decode state %s: %w", key, err)
	}
	return true, nil
}

func setState(q database.DBTX, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode state %s: %w", key, err)
	}

	if _, err := q.Exec(q.GetDialect().UpsertState(), key, string(raw)); err != nil {
		return fmt.Errorf("failed to write state %s: %w", key, err)
	}
	return nil
}
