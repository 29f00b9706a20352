package repository

import (
	"codefit/internal/database"
	"codefit/internal/models"
)

// CommitLogCap bounds the persisted commit log
const CommitLogCap = 50

// CommitRepository manages the bounded log of detected git commits
type CommitRepository struct {
	db *database.DB
}

// NewCommitRepository creates a new commit repository
func NewCommitRepository(db *database.DB) *CommitRepository {
	return &CommitRepository{db: db}
}

// List returns all stored commits, oldest first
func (r *CommitRepository) List() ([]models.CommitRecord, error) {
	var commits []models.CommitRecord
	if _, err := getState(r.db, KeyGitCommits, &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

// Append adds a commit to the log, trimming the oldest past the cap
func (r *CommitRepository) Append(commit models.CommitRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	var commits []models.CommitRecord
	if _, err := getState(tx, KeyGitCommits, &commits); err != nil {
		tx.Rollback()
		return err
	}

	commits = append(commits, commit)
	if len(commits) > CommitLogCap {
		commits = commits[len(commits)-CommitLogCap:]
	}

	if err := setState(tx, KeyGitCommits, commits); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Latest returns the most recently appended commit, or nil if none exist
func (r *CommitRepository) Latest() (*models.CommitRecord, error) {
	commits, err := r.List()
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, nil
	}
	return &commits[len(commits)-1], nil
}
