package repository

import (
	"time"

	"codefit/internal/database"
	"codefit/internal/models"
)

// ActivityLogCap bounds the persisted activity log. Appending past the cap
// drops the oldest entries first.
const ActivityLogCap = 1000

// ActivityRepository manages the append-only activity log
type ActivityRepository struct {
	db *database.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *database.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// List returns all stored activities, oldest first
func (r *ActivityRepository) List() ([]models.Activity, error) {
	var activities []models.Activity
	if _, err := getState(r.db, KeyActivities, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// Append adds an activity to the log, trimming from the head when the log
// exceeds the cap. The read-trim-write sequence runs in a transaction so a
// concurrent reader never observes a partially rewritten log.
func (r *ActivityRepository) Append(activity models.Activity) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	var activities []models.Activity
	if _, err := getState(tx, KeyActivities, &activities); err != nil {
		tx.Rollback()
		return err
	}

	activities = append(activities, activity)
	if len(activities) > ActivityLogCap {
		activities = activities[len(activities)-ActivityLogCap:]
	}

	if err := setState(tx, KeyActivities, activities); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// OnDay returns the activities created on the same local calendar day as t
func (r *ActivityRepository) OnDay(t time.Time) ([]models.Activity, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}

	var out []models.Activity
	for _, a := range all {
		if models.SameCalendarDay(a.CreatedAt, t) {
			out = append(out, a)
		}
	}
	return out, nil
}

// CreatedSince returns the activities created strictly after t, oldest first
func (r *ActivityRepository) CreatedSince(t time.Time) ([]models.Activity, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}

	var out []models.Activity
	for _, a := range all {
		if a.CreatedAt.After(t) {
			out = append(out, a)
		}
	}
	return out, nil
}
