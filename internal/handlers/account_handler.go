package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"codefit/internal/service"
	"codefit/internal/utils"
)

// AccountHandler manages cloud sign-in and licensing
type AccountHandler struct {
	cloud    *service.CloudService
	licenses *service.LicenseService

	mu sync.Mutex
	// oauthState is the expected state parameter for the in-flight
	// sign-in; a new sign-in replaces it
	oauthState string
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(cloud *service.CloudService, licenses *service.LicenseService) *AccountHandler {
	return &AccountHandler{cloud: cloud, licenses: licenses}
}

// SignIn starts the OAuth flow and returns the URL to open in a browser
func (h *AccountHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	state := utils.NewID()
	h.mu.Lock()
	h.oauthState = state
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]any{
		"auth_url": h.cloud.SignInURL(state),
	})
}

// Callback completes the OAuth flow with the provider's redirect. The
// state parameter is single-use.
func (h *AccountHandler) Callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	h.mu.Lock()
	ok := state != "" && state == h.oauthState
	if ok {
		h.oauthState = ""
	}
	h.mu.Unlock()
	if !ok {
		respondWithError(w, http.StatusBadRequest, "State mismatch", "", nil)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Missing authorization code", "", nil)
		return
	}

	if err := h.cloud.CompleteSignIn(r.Context(), code); err != nil {
		respondWithError(w, http.StatusBadGateway, "Sign-in failed", "completing sign-in", err)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte("<html><body><p>Signed in. You can close this window.</p></body></html>"))
}

// SignOut discards the stored cloud session
func (h *AccountHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.cloud.SignOut(); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "signing out", err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// License reports the stored license, verified locally
func (h *AccountHandler) License(w http.ResponseWriter, r *http.Request) {
	info, err := h.licenses.Current()
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]any{"valid": false, "error": err.Error()})
		return
	}
	if info == nil {
		respondJSON(w, http.StatusOK, map[string]any{"valid": false})
		return
	}
	respondJSON(w, http.StatusOK, info)
}

type activateRequest struct {
	Key string `json:"key"`
}

// ActivateLicense exchanges a license key for a verified token
func (h *AccountHandler) ActivateLicense(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}
	if req.Key == "" {
		respondWithError(w, http.StatusBadRequest, "License key is required", "", nil)
		return
	}

	info, err := h.licenses.Activate(r.Context(), req.Key)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Activation failed", "activating license", err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}
