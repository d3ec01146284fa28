package patient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

// mockService implements ServiceInterface for testing
type mockService struct {
	createFunc func(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error)
	getFunc    func(ctx context.Context, patientUUID string) (*PatientResponse, error)
	updateFunc func(ctx context.Context, patientUUID string, req UpdatePatientRequest) (*PatientResponse, error)
}

func (m *mockService) CreatePatient(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &PatientResponse{UUID: "pat-uuid-1", Identifier: "P000001", Name: req.Name, IsActive: true}, nil
}

func (m *mockService) GetPatient(ctx context.Context, patientUUID string) (*PatientResponse, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, patientUUID)
	}
	return nil, ErrPatientNotFound
}

func (m *mockService) GetPatientByIdentifier(ctx context.Context, identifier string) (*PatientResponse, error) {
	return nil, ErrPatientNotFound
}

func (m *mockService) ListPatients(ctx context.Context, limit, offset int) ([]PatientResponse, int, error) {
	return []PatientResponse{{UUID: "pat-uuid-1", Identifier: "P000001", Name: "Abebe Bikila"}}, 1, nil
}

func (m *mockService) UpdatePatient(ctx context.Context, patientUUID string, req UpdatePatientRequest) (*PatientResponse, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, patientUUID, req)
	}
	return nil, ErrPatientNotFound
}

func TestCreatePatientHandler_Success(t *testing.T) {
	handler := NewHandler(&mockService{})

	body, _ := json.Marshal(CreatePatientRequest{Name: "Abebe Bikila"})
	req := httptest.NewRequest(http.MethodPost, "/patients", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CreatePatient(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	var resp PatientResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Identifier != "P000001" {
		t.Errorf("Expected identifier P000001, got %s", resp.Identifier)
	}
}

func TestCreatePatientHandler_ValidationError(t *testing.T) {
	handler := NewHandler(&mockService{
		createFunc: func(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error) {
			return nil, ErrMissingName
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/patients", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	handler.CreatePatient(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreatePatientHandler_IdentifierConflict(t *testing.T) {
	handler := NewHandler(&mockService{
		createFunc: func(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error) {
			return nil, ErrIdentifierTaken
		},
	})

	body, _ := json.Marshal(CreatePatientRequest{Name: "Abebe", Identifier: "P000001"})
	req := httptest.NewRequest(http.MethodPost, "/patients", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CreatePatient(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestCreatePatientHandler_InvalidJSON(t *testing.T) {
	handler := NewHandler(&mockService{})

	req := httptest.NewRequest(http.MethodPost, "/patients", bytes.NewReader([]byte(`{not json`)))
	rec := httptest.NewRecorder()

	handler.CreatePatient(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetPatientHandler_NotFound(t *testing.T) {
	handler := NewHandler(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/patients/missing", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "missing"})
	rec := httptest.NewRecorder()

	handler.GetPatient(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestListPatientsHandler(t *testing.T) {
	handler := NewHandler(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/patients?page=1&limit=10", nil)
	rec := httptest.NewRecorder()

	handler.ListPatients(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Patients []PatientResponse      `json:"patients"`
		Meta     map[string]interface{} `json:"meta"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Patients) != 1 {
		t.Errorf("Expected 1 patient, got %d", len(resp.Patients))
	}
	if resp.Meta["total_records"].(float64) != 1 {
		t.Errorf("Expected total_records 1, got %v", resp.Meta["total_records"])
	}
}

func TestUpdatePatientHandler_NotFound(t *testing.T) {
	handler := NewHandler(&mockService{})

	req := httptest.NewRequest(http.MethodPut, "/patients/missing", bytes.NewReader([]byte(`{}`)))
	req = mux.SetURLVars(req, map[string]string{"id": "missing"})
	rec := httptest.NewRecorder()

	handler.UpdatePatient(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
