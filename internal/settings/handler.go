package settings

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	repo RepositoryInterface
}

func NewHandler(repo RepositoryInterface) *Handler {
	return &Handler{repo: repo}
}

type syncConfigEnvelope struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Config  SyncConfigResponse `json:"config"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Success: false, Error: code, Message: message})
}

// GetSyncConfig returns the current sync configuration. The API password is
// never included; only whether one is set.
func (h *Handler) GetSyncConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.repo.LoadSyncConfig(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "settings_load_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(syncConfigEnvelope{Success: true, Config: cfg.Response()})
}

// UpdateSyncConfig applies a partial update of the sync configuration.
func (h *Handler) UpdateSyncConfig(w http.ResponseWriter, r *http.Request) {
	var req UpdateSyncConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	if err := h.repo.ApplyUpdate(r.Context(), req); err != nil {
		respondError(w, http.StatusInternalServerError, "settings_update_failed", err.Error())
		return
	}

	cfg, err := h.repo.LoadSyncConfig(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "settings_load_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(syncConfigEnvelope{
		Success: true,
		Message: "Sync configuration updated",
		Config:  cfg.Response(),
	})
}
