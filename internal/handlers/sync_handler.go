package handlers

import (
	"net/http"

	"codefit/internal/service"
)

// SyncHandler drives cloud sync, export and the team views
type SyncHandler struct {
	cloud   *service.CloudService
	exports *service.ExportService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(cloud *service.CloudService, exports *service.ExportService) *SyncHandler {
	return &SyncHandler{cloud: cloud, exports: exports}
}

// Sync pushes unsynced activities to the cloud backend
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if !h.cloud.SignedIn() {
		respondWithError(w, http.StatusUnauthorized, "Sign in before syncing", "", nil)
		return
	}

	summary, err := h.cloud.SyncActivities(r.Context())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "syncing activities", err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Export serves the full local-state export as a JSON download
func (h *SyncHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.exports.Collect()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "collecting export", err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="codefit-export.json"`)
	respondJSON(w, http.StatusOK, data)
}

// TeamStats proxies aggregated team stats from the cloud backend
func (h *SyncHandler) TeamStats(w http.ResponseWriter, r *http.Request) {
	var out any
	if err := h.cloud.FetchTeamStats(r.Context(), &out); err != nil {
		respondWithError(w, http.StatusBadGateway, "Team stats unavailable", "fetching team stats", err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// Organization proxies the user's organization record
func (h *SyncHandler) Organization(w http.ResponseWriter, r *http.Request) {
	var out any
	if err := h.cloud.FetchOrganization(r.Context(), &out); err != nil {
		respondWithError(w, http.StatusBadGateway, "Organization unavailable", "fetching organization", err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

// Analytics proxies usage analytics from the cloud backend
func (h *SyncHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	var out any
	if err := h.cloud.FetchAnalytics(r.Context(), &out); err != nil {
		respondWithError(w, http.StatusBadGateway, "Analytics unavailable", "fetching analytics", err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}
