package repository

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"codefit/internal/database"
	"codefit/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func TestActivityAppendAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewActivityRepository(newTestDB(t))
	now := time.Now()

	first := models.Activity{ID: "a1", ExerciseID: "neck-stretch", Duration: 60, CreatedAt: now}
	second := models.Activity{ID: "a2", ExerciseID: "desk-walk", Duration: 120, CreatedAt: now.Add(time.Minute)}

	if err := repo.Append(first); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := repo.Append(second); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	activities, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("Expected 2 activities, got %d", len(activities))
	}
	if activities[0].ID != "a1" || activities[1].ID != "a2" {
		t.Errorf("Activities out of order: %s, %s", activities[0].ID, activities[1].ID)
	}
}

func TestActivityLogCap(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	repo := NewActivityRepository(db)
	state := NewStateRepository(db)
	now := time.Now()

	// Seed a full log directly, then append one more
	full := make([]models.Activity, ActivityLogCap)
	for i := range full {
		full[i] = models.Activity{ID: fmt.Sprintf("a%d", i), CreatedAt: now}
	}
	if err := state.Set(KeyActivities, full); err != nil {
		t.Fatalf("Failed to seed activities: %v", err)
	}

	if err := repo.Append(models.Activity{ID: "overflow", CreatedAt: now}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	activities, err := repo.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(activities) != ActivityLogCap {
		t.Fatalf("Expected log length %d, got %d", ActivityLogCap, len(activities))
	}
	if activities[0].ID != "a1" {
		t.Errorf("Expected oldest entry a0 to be dropped, head is %s", activities[0].ID)
	}
	if activities[len(activities)-1].ID != "overflow" {
		t.Errorf("Expected newest entry at tail, got %s", activities[len(activities)-1].ID)
	}
}

func TestActivityOnDay(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewActivityRepository(newTestDB(t))
	today := time.Date(2025, 6, 2, 14, 0, 0, 0, time.Local)
	yesterday := today.AddDate(0, 0, -1)

	for _, a := range []models.Activity{
		{ID: "y1", CreatedAt: yesterday},
		{ID: "t1", CreatedAt: today.Add(-2 * time.Hour)},
		{ID: "t2", CreatedAt: today},
	} {
		if err := repo.Append(a); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	todays, err := repo.OnDay(today)
	if err != nil {
		t.Fatalf("OnDay failed: %v", err)
	}
	if len(todays) != 2 {
		t.Fatalf("Expected 2 activities today, got %d", len(todays))
	}

	yesterdays, err := repo.OnDay(yesterday)
	if err != nil {
		t.Fatalf("OnDay failed: %v", err)
	}
	if len(yesterdays) != 1 || yesterdays[0].ID != "y1" {
		t.Errorf("Expected only y1 yesterday, got %v", yesterdays)
	}
}

func TestWellnessDefaults(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	repo := NewWellnessRepository(newTestDB(t))

	stats, err := repo.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.HealthScore != 100 || stats.Level != 1 {
		t.Errorf("Expected default stats, got %+v", stats)
	}

	first, err := repo.IsFirstRun()
	if err != nil {
		t.Fatalf("IsFirstRun failed: %v", err)
	}
	if !first {
		t.Error("Expected first run before MarkOpened")
	}

	if err := repo.MarkOpened(); err != nil {
		t.Fatalf("MarkOpened failed: %v", err)
	}
	first, err = repo.IsFirstRun()
	if err != nil {
		t.Fatalf("IsFirstRun failed: %v", err)
	}
	if first {
		t.Error("Expected not first run after MarkOpened")
	}

	quest, err := repo.Quest()
	if err != nil {
		t.Fatalf("Quest failed: %v", err)
	}
	if quest != nil {
		t.Errorf("Expected nil quest before generation, got %+v", quest)
	}
}
