package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codefit/internal/service"
)

func TestStartExerciseEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tracker, _ := newTestHarness(t)
	handler := NewSessionHandler(tracker)
	defer tracker.Sessions().Stop()

	body := strings.NewReader(`{"exercise_id": "energize"}`)
	req := httptest.NewRequest(http.MethodPost, "/exercise/start", body)
	recorder := httptest.NewRecorder()
	handler.StartExercise(recorder, req)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", recorder.Code, recorder.Body.String())
	}

	var status service.SessionStatus
	if err := json.NewDecoder(recorder.Body).Decode(&status); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if status.ExerciseID != "energize" || status.StepCount != 5 {
		t.Errorf("unexpected session status: %+v", status)
	}

	// A second start conflicts with the running session
	body = strings.NewReader(`{"exercise_id": "neck-stretch"}`)
	req = httptest.NewRequest(http.MethodPost, "/exercise/start", body)
	recorder = httptest.NewRecorder()
	handler.StartExercise(recorder, req)
	if recorder.Code != http.StatusConflict {
		t.Errorf("second start status = %d, want 409", recorder.Code)
	}
}

func TestStartExerciseRejectsEmptyRequest(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tracker, _ := newTestHarness(t)
	handler := NewSessionHandler(tracker)

	req := httptest.NewRequest(http.MethodPost, "/exercise/start", strings.NewReader(`{}`))
	recorder := httptest.NewRecorder()
	handler.StartExercise(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestSessionStatusEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tracker, _ := newTestHarness(t)
	handler := NewSessionHandler(tracker)

	req := httptest.NewRequest(http.MethodGet, "/exercise/status", nil)
	recorder := httptest.NewRecorder()
	handler.SessionStatus(recorder, req)

	var idle struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&idle); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if idle.Active {
		t.Error("expected inactive status with no session")
	}

	if _, err := tracker.StartExercise("energize", "manual"); err != nil {
		t.Fatalf("StartExercise failed: %v", err)
	}
	defer tracker.Sessions().Stop()

	recorder = httptest.NewRecorder()
	handler.SessionStatus(recorder, req)
	var running struct {
		Active  bool                  `json:"active"`
		Session service.SessionStatus `json:"session"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&running); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if !running.Active || running.Session.ExerciseID != "energize" {
		t.Errorf("unexpected running status: %+v", running)
	}
}

func TestSkipAndStopWithoutSession(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tracker, _ := newTestHarness(t)
	handler := NewSessionHandler(tracker)

	recorder := httptest.NewRecorder()
	handler.SkipStep(recorder, httptest.NewRequest(http.MethodPost, "/exercise/skip", nil))
	if recorder.Code != http.StatusNotFound {
		t.Errorf("skip status = %d, want 404", recorder.Code)
	}

	recorder = httptest.NewRecorder()
	handler.StopSession(recorder, httptest.NewRequest(http.MethodPost, "/exercise/stop", nil))
	if recorder.Code != http.StatusNotFound {
		t.Errorf("stop status = %d, want 404", recorder.Code)
	}
}

func TestSnoozeEndpointDefaults(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tracker, wellness := newTestHarness(t)
	handler := NewSessionHandler(tracker)

	req := httptest.NewRequest(http.MethodPost, "/snooze", nil)
	recorder := httptest.NewRecorder()
	handler.Snooze(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	state, _ := wellness.ReminderState()
	if state.SnoozeUntil == nil {
		t.Fatal("snooze not persisted")
	}
}

func TestTogglePauseEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tracker, _ := newTestHarness(t)
	handler := NewSessionHandler(tracker)

	req := httptest.NewRequest(http.MethodPost, "/reminders/pause", nil)
	recorder := httptest.NewRecorder()
	handler.TogglePause(recorder, req)

	var resp struct {
		Paused bool `json:"paused"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Paused {
		t.Error("first toggle should report paused")
	}
}

func TestPromptActionEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tracker, _ := newTestHarness(t)
	handler := NewSessionHandler(tracker)

	req := httptest.NewRequest(http.MethodPost, "/prompt/action", strings.NewReader(`{"command": "dismiss"}`))
	recorder := httptest.NewRecorder()
	handler.PromptAction(recorder, req)
	if recorder.Code != http.StatusNoContent {
		t.Errorf("dismiss status = %d, want 204", recorder.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/prompt/action", strings.NewReader(`{"command": "warp"}`))
	recorder = httptest.NewRecorder()
	handler.PromptAction(recorder, req)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("unknown action status = %d, want 400", recorder.Code)
	}
}
