package elis

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Abershum-Health/elis-sync-service/internal/pagination"
	"github.com/gorilla/mux"
)

// Handler exposes the failed-event admin surface.
type Handler struct {
	repo  FailedEventRepositoryInterface
	retry *RetryService
}

func NewHandler(repo FailedEventRepositoryInterface, retry *RetryService) *Handler {
	return &Handler{repo: repo, retry: retry}
}

type failedEventListResponse struct {
	Success bool            `json:"success"`
	Events  []FailedEvent   `json:"events"`
	Meta    pagination.Meta `json:"meta"`
}

type retryResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Succeeded int    `json:"succeeded,omitempty"`
	Attempted int    `json:"attempted,omitempty"`
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

// ListFailedEvents returns stored failed events in FIFO order.
func (h *Handler) ListFailedEvents(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r)

	events, total, err := h.repo.List(r.Context(), params.Limit, params.CalculateOffset())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "list_failed", err.Error())
		return
	}
	if events == nil {
		events = []FailedEvent{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(failedEventListResponse{
		Success: true,
		Events:  events,
		Meta:    params.CalculateMeta(total),
	})
}

// RetryFailedEvent retries a single stored event immediately.
func (h *Handler) RetryFailedEvent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "Event id must be an integer")
		return
	}

	err = h.retry.RetryByID(r.Context(), id)
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(retryResponse{Success: true, Message: "Event synced and removed"})
	case errors.Is(err, ErrEventNotFound):
		respondError(w, http.StatusNotFound, "event_not_found", "Failed event not found")
	case errors.Is(err, ErrSyncDisabled):
		respondError(w, http.StatusConflict, "sync_disabled", "Sync for this event kind is disabled")
	default:
		respondError(w, http.StatusBadGateway, "retry_failed", err.Error())
	}
}

// RetryDueEvents processes all due events, FIFO, capped per run.
func (h *Handler) RetryDueEvents(w http.ResponseWriter, r *http.Request) {
	succeeded, attempted, err := h.retry.RetryDue(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "retry_run_failed", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(retryResponse{
		Success:   true,
		Message:   "Retry run completed",
		Succeeded: succeeded,
		Attempted: attempted,
	})
}
