package handlers

import (
	"encoding/json"
	"net/http"

	"codefit/internal/models"
	"codefit/internal/repository"
	"codefit/internal/service"
)

// DashboardHandler serves the read-side views: dashboard, stats,
// achievements and the daily quest.
type DashboardHandler struct {
	tracker  *service.Tracker
	wellness *repository.WellnessRepository
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(tracker *service.Tracker, wellness *repository.WellnessRepository) *DashboardHandler {
	return &DashboardHandler{tracker: tracker, wellness: wellness}
}

// Dashboard serves the aggregate companion view
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.tracker.Dashboard()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "assembling dashboard", err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

// Stats serves the user stats aggregate
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.wellness.Stats()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "loading stats", err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

type achievementView struct {
	models.Achievement
	Unlocked bool `json:"unlocked"`
}

// Achievements serves the full catalog with per-achievement unlock state
func (h *DashboardHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	unlocked, err := h.wellness.Unlocked()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "loading achievements", err)
		return
	}

	catalog := service.DefaultAchievements()
	views := make([]achievementView, 0, len(catalog))
	for _, a := range catalog {
		views = append(views, achievementView{Achievement: a, Unlocked: unlocked[a.ID]})
	}
	respondJSON(w, http.StatusOK, views)
}

// Quest serves today's daily quest, generating it on first access
func (h *DashboardHandler) Quest(w http.ResponseWriter, r *http.Request) {
	quest := h.tracker.Quest()
	if quest == nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "", nil)
		return
	}
	respondJSON(w, http.StatusOK, quest)
}

// Exercises serves the exercise catalog
func (h *DashboardHandler) Exercises(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, service.DefaultExercises())
}

type signalsRequest struct {
	Debugging bool `json:"debugging"`
	Intensity int  `json:"intensity"`
}

// Signals receives the editor's volatile activity signals, consulted by
// the next reminder tick.
func (h *DashboardHandler) Signals(w http.ResponseWriter, r *http.Request) {
	var req signalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	h.tracker.SetSignals(req.Debugging, req.Intensity)
	respondJSON(w, http.StatusNoContent, nil)
}
