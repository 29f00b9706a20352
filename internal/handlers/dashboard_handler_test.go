package handlers

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"codefit/internal/config"
	"codefit/internal/database"
	"codefit/internal/repository"
	"codefit/internal/service"
)

func newTestHarness(t *testing.T) (*service.Tracker, *repository.WellnessRepository) {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	activities := repository.NewActivityRepository(db)
	wellness := repository.NewWellnessRepository(db)
	cfg := &config.Config{ReminderMode: config.ModeSmart, IntensityThreshold: 300}
	rng := rand.New(rand.NewSource(1))

	tracker := service.NewTracker(
		activities,
		wellness,
		service.NewScoringService(),
		service.NewStreakService(),
		service.NewGamificationService(true, rng),
		service.NewReminderPolicy(cfg, rng),
		service.NewClock(),
		rng,
		time.Second,
		true,
	)
	return tracker, wellness
}

func TestDashboardEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tracker, wellness := newTestHarness(t)
	handler := NewDashboardHandler(tracker, wellness)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	recorder := httptest.NewRecorder()
	handler.Dashboard(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var dashboard service.Dashboard
	if err := json.NewDecoder(recorder.Body).Decode(&dashboard); err != nil {
		t.Fatalf("decoding dashboard: %v", err)
	}
	if dashboard.Stats == nil || dashboard.Stats.HealthScore != 100 {
		t.Errorf("fresh dashboard should carry default stats: %+v", dashboard.Stats)
	}
	if dashboard.Quest == nil || len(dashboard.Quest.Tasks) == 0 {
		t.Error("dashboard should generate today's quest")
	}
	if dashboard.LevelTitle == "" {
		t.Error("level title missing with show-level enabled")
	}
}

func TestAchievementsEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tracker, wellness := newTestHarness(t)
	handler := NewDashboardHandler(tracker, wellness)

	if err := wellness.SaveUnlocked(map[string]bool{"first-steps": true}); err != nil {
		t.Fatalf("SaveUnlocked failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/achievements", nil)
	recorder := httptest.NewRecorder()
	handler.Achievements(recorder, req)

	var views []achievementView
	if err := json.NewDecoder(recorder.Body).Decode(&views); err != nil {
		t.Fatalf("decoding achievements: %v", err)
	}
	if len(views) != len(service.DefaultAchievements()) {
		t.Fatalf("got %d achievements, want full catalog", len(views))
	}

	for _, v := range views {
		want := v.ID == "first-steps"
		if v.Unlocked != want {
			t.Errorf("%s unlocked = %v, want %v", v.ID, v.Unlocked, want)
		}
	}
}

func TestSignalsEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tracker, wellness := newTestHarness(t)
	handler := NewDashboardHandler(tracker, wellness)

	body := strings.NewReader(`{"debugging": true, "intensity": 500}`)
	req := httptest.NewRequest(http.MethodPost, "/signals", body)
	recorder := httptest.NewRecorder()
	handler.Signals(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", recorder.Code)
	}

	// With debugging on, even a long elapsed stretch must not fire
	state, _ := wellness.ReminderState()
	state.WorkMinutes = 200
	wellness.SaveReminderState(state)
	tracker.Tick()
	if tracker.PendingPrompt() != nil {
		t.Error("prompt fired despite debugging signal")
	}
}

func TestSignalsEndpointRejectsBadBody(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tracker, wellness := newTestHarness(t)
	handler := NewDashboardHandler(tracker, wellness)

	req := httptest.NewRequest(http.MethodPost, "/signals", strings.NewReader("{"))
	recorder := httptest.NewRecorder()
	handler.Signals(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}
