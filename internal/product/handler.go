package product

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Abershum-Health/elis-sync-service/internal/pagination"
	"github.com/gorilla/mux"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		log.Printf("Failed to create product: %v", err)

		switch {
		case errors.Is(err, ErrMissingName), errors.Is(err, ErrMissingCategory), errors.Is(err, ErrComponentsNotPanel):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrCodeTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "failed to create product", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(product)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r)
	labOnly := r.URL.Query().Get("lab_only") == "true"

	products, total, err := h.service.ListProducts(r.Context(), labOnly, params.Limit, params.CalculateOffset())
	if err != nil {
		log.Printf("Failed to list products: %v", err)
		http.Error(w, "failed to list products", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []ProductResponse{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"products": products,
		"meta":     params.CalculateMeta(total),
	})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productUUID := mux.Vars(r)["id"]

	product, err := h.service.GetProduct(r.Context(), productUUID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to get product: %v", err)
		http.Error(w, "failed to get product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productUUID := mux.Vars(r)["id"]

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), productUUID, req)
	if err != nil {
		log.Printf("Failed to update product: %v", err)

		switch {
		case errors.Is(err, ErrProductNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrMissingName), errors.Is(err, ErrMissingCategory), errors.Is(err, ErrComponentsNotPanel):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrCodeTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "failed to update product", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}
