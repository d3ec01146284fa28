package order

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Abershum-Health/elis-sync-service/internal/pagination"
	"github.com/Abershum-Health/elis-sync-service/internal/patient"
	"github.com/Abershum-Health/elis-sync-service/internal/sequence"
	"github.com/gorilla/mux"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		log.Printf("Failed to create order: %v", err)

		switch {
		case errors.Is(err, ErrMissingPatient), errors.Is(err, ErrMissingLines),
			errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidOrderDate):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, patient.ErrPatientNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, sequence.ErrNotConfigured), errors.Is(err, sequence.ErrExhausted):
			http.Error(w, err.Error(), http.StatusInternalServerError)
		default:
			http.Error(w, "failed to create order", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r)

	orders, total, err := h.service.ListOrders(r.Context(), params.Limit, params.CalculateOffset())
	if err != nil {
		log.Printf("Failed to list orders: %v", err)
		http.Error(w, "failed to list orders", http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []OrderResponse{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"orders": orders,
		"meta":   params.CalculateMeta(total),
	})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderUUID := mux.Vars(r)["id"]

	order, err := h.service.GetOrder(r.Context(), orderUUID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to get order: %v", err)
		http.Error(w, "failed to get order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// ConfirmOrder confirms a draft order. The response is the confirmed order
// whether or not the OpenELIS push behind it succeeded.
func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	orderUUID := mux.Vars(r)["id"]

	order, err := h.service.ConfirmOrder(r.Context(), orderUUID)
	if err != nil {
		log.Printf("Failed to confirm order: %v", err)

		switch {
		case errors.Is(err, ErrOrderNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrNotDraft):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "failed to confirm order", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderUUID := mux.Vars(r)["id"]

	order, err := h.service.CancelOrder(r.Context(), orderUUID)
	if err != nil {
		log.Printf("Failed to cancel order: %v", err)

		switch {
		case errors.Is(err, ErrOrderNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrAlreadyCancelled):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "failed to cancel order", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}
