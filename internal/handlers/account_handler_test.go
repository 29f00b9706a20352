package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"codefit/internal/config"
	"codefit/internal/database"
	"codefit/internal/repository"
	"codefit/internal/service"
)

func newAccountHarness(t *testing.T) *AccountHandler {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	state := repository.NewStateRepository(db)
	activities := repository.NewActivityRepository(db)
	wellness := repository.NewWellnessRepository(db)

	cfg := &config.Config{ServerPort: "7077", CloudBaseURL: "http://cloud.invalid"}
	cloud := service.NewCloudService(cfg, state, activities, wellness, service.NewClock())
	licenses := service.NewLicenseService("test-secret", cloud, state, service.NewClock())
	return NewAccountHandler(cloud, licenses)
}

func signIn(t *testing.T, handler *AccountHandler) string {
	t.Helper()

	recorder := httptest.NewRecorder()
	handler.SignIn(recorder, httptest.NewRequest(http.MethodPost, "/auth/signin", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("sign-in status = %d, want 200", recorder.Code)
	}

	var resp struct {
		AuthURL string `json:"auth_url"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding sign-in response: %v", err)
	}
	u, err := url.Parse(resp.AuthURL)
	if err != nil {
		t.Fatalf("parsing auth URL: %v", err)
	}
	state := u.Query().Get("state")
	if state == "" {
		t.Fatal("auth URL carries no state parameter")
	}
	return state
}

func TestCallbackStateValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	handler := newAccountHarness(t)
	state := signIn(t, handler)

	// A stale state is rejected without consuming the in-flight one
	recorder := httptest.NewRecorder()
	handler.Callback(recorder, httptest.NewRequest(http.MethodGet, "/auth/callback?state=stale&code=x", nil))
	if recorder.Code != http.StatusBadRequest || !strings.Contains(recorder.Body.String(), "State mismatch") {
		t.Errorf("stale state: status = %d, body = %q", recorder.Code, recorder.Body.String())
	}

	// The matching state passes the check and is consumed
	recorder = httptest.NewRecorder()
	handler.Callback(recorder, httptest.NewRequest(http.MethodGet, "/auth/callback?state="+state, nil))
	if !strings.Contains(recorder.Body.String(), "Missing authorization code") {
		t.Errorf("matching state: body = %q, want missing-code error", recorder.Body.String())
	}

	recorder = httptest.NewRecorder()
	handler.Callback(recorder, httptest.NewRequest(http.MethodGet, "/auth/callback?state="+state, nil))
	if !strings.Contains(recorder.Body.String(), "State mismatch") {
		t.Errorf("reused state: body = %q, want mismatch error", recorder.Body.String())
	}
}

func TestSignInReplacesInFlightState(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	handler := newAccountHarness(t)

	first := signIn(t, handler)
	second := signIn(t, handler)

	recorder := httptest.NewRecorder()
	handler.Callback(recorder, httptest.NewRequest(http.MethodGet, "/auth/callback?state="+first, nil))
	if !strings.Contains(recorder.Body.String(), "State mismatch") {
		t.Errorf("superseded state: body = %q, want mismatch error", recorder.Body.String())
	}

	recorder = httptest.NewRecorder()
	handler.Callback(recorder, httptest.NewRequest(http.MethodGet, "/auth/callback?state="+second, nil))
	if !strings.Contains(recorder.Body.String(), "Missing authorization code") {
		t.Errorf("current state: body = %q, want missing-code error", recorder.Body.String())
	}
}

func TestSignInConcurrentRequests(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	handler := newAccountHarness(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			recorder := httptest.NewRecorder()
			handler.SignIn(recorder, httptest.NewRequest(http.MethodPost, "/auth/signin", nil))
			if recorder.Code != http.StatusOK {
				t.Errorf("sign-in status = %d, want 200", recorder.Code)
			}
		}()
	}
	wg.Wait()

	// Whatever interleaving won, a fresh sign-in must still round-trip
	state := signIn(t, handler)
	recorder := httptest.NewRecorder()
	handler.Callback(recorder, httptest.NewRequest(http.MethodGet, "/auth/callback?state="+state, nil))
	if !strings.Contains(recorder.Body.String(), "Missing authorization code") {
		t.Errorf("body = %q, want missing-code error", recorder.Body.String())
	}
}
