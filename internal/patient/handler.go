package patient

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Abershum-Health/elis-sync-service/internal/pagination"
	"github.com/Abershum-Health/elis-sync-service/internal/sequence"
	"github.com/gorilla/mux"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	patient, err := h.service.CreatePatient(r.Context(), req)
	if err != nil {
		log.Printf("Failed to create patient: %v", err)

		switch {
		case errors.Is(err, ErrMissingName), errors.Is(err, ErrInvalidGender), errors.Is(err, ErrInvalidBirthdate):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrIdentifierTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, sequence.ErrNotConfigured), errors.Is(err, sequence.ErrExhausted):
			http.Error(w, err.Error(), http.StatusInternalServerError)
		default:
			http.Error(w, "failed to create patient", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(patient)
}

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	params := pagination.ParseParams(r)

	patients, total, err := h.service.ListPatients(r.Context(), params.Limit, params.CalculateOffset())
	if err != nil {
		log.Printf("Failed to list patients: %v", err)
		http.Error(w, "failed to list patients", http.StatusInternalServerError)
		return
	}
	if patients == nil {
		patients = []PatientResponse{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"patients": patients,
		"meta":     params.CalculateMeta(total),
	})
}

func (h *Handler) GetPatient(w http.ResponseWriter, r *http.Request) {
	patientUUID := mux.Vars(r)["id"]

	patient, err := h.service.GetPatient(r.Context(), patientUUID)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to get patient: %v", err)
		http.Error(w, "failed to get patient", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patient)
}

// GetPatientByIdentifier looks a patient up by registration number, the key
// front-desk staff actually have in hand.
func (h *Handler) GetPatientByIdentifier(w http.ResponseWriter, r *http.Request) {
	identifier := mux.Vars(r)["identifier"]

	patient, err := h.service.GetPatientByIdentifier(r.Context(), identifier)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		log.Printf("Failed to get patient by identifier: %v", err)
		http.Error(w, "failed to get patient", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patient)
}

func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	patientUUID := mux.Vars(r)["id"]

	var req UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	patient, err := h.service.UpdatePatient(r.Context(), patientUUID, req)
	if err != nil {
		log.Printf("Failed to update patient: %v", err)

		switch {
		case errors.Is(err, ErrPatientNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrMissingName), errors.Is(err, ErrInvalidGender), errors.Is(err, ErrInvalidBirthdate):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "failed to update patient", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patient)
}
