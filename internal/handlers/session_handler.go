package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"codefit/internal/models"
	"codefit/internal/service"
)

// SessionHandler drives exercise sessions and the reminder controls
type SessionHandler struct {
	tracker *service.Tracker
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(tracker *service.Tracker) *SessionHandler {
	return &SessionHandler{tracker: tracker}
}

type startExerciseRequest struct {
	ExerciseID string `json:"exercise_id"`
	Minutes    int    `json:"minutes,omitempty"`
}

// StartExercise begins a session, either for a named exercise or for a
// requested break length.
func (h *SessionHandler) StartExercise(w http.ResponseWriter, r *http.Request) {
	var req startExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	var status service.SessionStatus
	var err error
	if req.ExerciseID != "" {
		status, err = h.tracker.StartExercise(req.ExerciseID, models.TriggerManual)
	} else if req.Minutes > 0 {
		status, err = h.tracker.StartBreak(req.Minutes, models.TriggerManual)
	} else {
		respondWithError(w, http.StatusBadRequest, "exercise_id or minutes is required", "", nil)
		return
	}

	if err != nil {
		if errors.Is(err, service.ErrSessionActive) {
			respondWithError(w, http.StatusConflict, "An exercise is already running", "", nil)
			return
		}
		respondWithError(w, http.StatusBadRequest, err.Error(), "starting session", err)
		return
	}
	respondJSON(w, http.StatusCreated, status)
}

// BreakNow starts an immediate short break
func (h *SessionHandler) BreakNow(w http.ResponseWriter, r *http.Request) {
	status, err := h.tracker.StartBreak(3, models.TriggerManual)
	if err != nil {
		if errors.Is(err, service.ErrSessionActive) {
			respondWithError(w, http.StatusConflict, "An exercise is already running", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "starting break", err)
		return
	}
	respondJSON(w, http.StatusCreated, status)
}

// SkipStep advances the running session to its next step
func (h *SessionHandler) SkipStep(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.Sessions().Skip(); err != nil {
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// StopSession aborts the running session without recording anything
func (h *SessionHandler) StopSession(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.Sessions().Stop(); err != nil {
		respondWithError(w, http.StatusNotFound, err.Error(), "", nil)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// SessionStatus reports the running session, or the result of the last
// completed one when nothing is running.
func (h *SessionHandler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.tracker.Sessions().Status()
	if err != nil {
		if last := h.tracker.LastCompletion(); last != nil {
			respondJSON(w, http.StatusOK, map[string]any{"active": false, "last_completion": last})
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"active": true, "session": status})
}

type snoozeRequest struct {
	Minutes int `json:"minutes"`
}

// Snooze suppresses reminders for the requested length (default 30 min)
func (h *SessionHandler) Snooze(w http.ResponseWriter, r *http.Request) {
	req := snoozeRequest{Minutes: 30}
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
			return
		}
	}
	if req.Minutes <= 0 {
		respondWithError(w, http.StatusBadRequest, "minutes must be positive", "", nil)
		return
	}

	until := h.tracker.Snooze(req.Minutes)
	respondJSON(w, http.StatusOK, map[string]any{"snoozed_until": until})
}

// TogglePause flips the reminder pause flag
func (h *SessionHandler) TogglePause(w http.ResponseWriter, r *http.Request) {
	paused := h.tracker.TogglePause()
	respondJSON(w, http.StatusOK, map[string]any{"paused": paused})
}

type actionRequest struct {
	Command string `json:"command"`
}

// PromptAction applies a reminder prompt action ("break:3", "exercise",
// "snooze:15", "dismiss").
func (h *SessionHandler) PromptAction(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	if err := h.tracker.HandleAction(req.Command); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "handling prompt action", err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
