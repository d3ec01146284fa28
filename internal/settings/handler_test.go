package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type mockRepository struct {
	config      SyncConfig
	loadErr     error
	applyErr    error
	lastRequest *UpdateSyncConfigRequest
}

func (m *mockRepository) Get(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (m *mockRepository) Set(ctx context.Context, key, value string) error {
	return nil
}

func (m *mockRepository) LoadSyncConfig(ctx context.Context) (SyncConfig, error) {
	if m.loadErr != nil {
		return SyncConfig{}, m.loadErr
	}
	return m.config, nil
}

func (m *mockRepository) ApplyUpdate(ctx context.Context, req UpdateSyncConfigRequest) error {
	m.lastRequest = &req
	if m.applyErr != nil {
		return m.applyErr
	}
	if req.EnableTestOrderSync != nil {
		m.config.EnableTestOrderSync = *req.EnableTestOrderSync
	}
	if req.APIPassword != nil {
		m.config.APIPassword = *req.APIPassword
	}
	return nil
}

func TestGetSyncConfig_NeverEchoesPassword(t *testing.T) {
	repo := &mockRepository{config: SyncConfig{
		EnableTestOrderSync: true,
		APIURL:              "http://openelis:8080/openelis",
		APIUsername:         "odoo",
		APIPassword:         "super-secret",
	}}
	handler := NewHandler(repo)

	req := httptest.NewRequest("GET", "/api/v1/sync/config", nil)
	w := httptest.NewRecorder()

	handler.GetSyncConfig(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "super-secret") {
		t.Error("Expected password to never appear in the response")
	}

	var envelope syncConfigEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !envelope.Config.PasswordSet {
		t.Error("Expected password_set to be true")
	}
	if envelope.Config.APIUsername != "odoo" {
		t.Errorf("Expected username odoo, got %s", envelope.Config.APIUsername)
	}
}

func TestGetSyncConfig_PasswordUnset(t *testing.T) {
	handler := NewHandler(&mockRepository{config: SyncConfig{APIURL: "http://elis.local"}})

	req := httptest.NewRequest("GET", "/api/v1/sync/config", nil)
	w := httptest.NewRecorder()

	handler.GetSyncConfig(w, req)

	var envelope syncConfigEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if envelope.Config.PasswordSet {
		t.Error("Expected password_set to be false")
	}
}

func TestUpdateSyncConfig_PartialUpdate(t *testing.T) {
	repo := &mockRepository{config: SyncConfig{APIURL: "http://elis.local"}}
	handler := NewHandler(repo)

	body := bytes.NewBufferString(`{"enable_test_order_sync": true, "api_password": "new-secret"}`)
	req := httptest.NewRequest("PUT", "/api/v1/sync/config", body)
	w := httptest.NewRecorder()

	handler.UpdateSyncConfig(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if repo.lastRequest == nil {
		t.Fatal("Expected update to reach the repository")
	}
	if repo.lastRequest.EnableTestOrderSync == nil || !*repo.lastRequest.EnableTestOrderSync {
		t.Error("Expected enable_test_order_sync to be applied")
	}
	if repo.lastRequest.APIURL != nil {
		t.Error("Expected api_url to be absent from a partial update")
	}
	if strings.Contains(w.Body.String(), "new-secret") {
		t.Error("Expected updated password to never be echoed back")
	}
}

func TestUpdateSyncConfig_InvalidJSON(t *testing.T) {
	handler := NewHandler(&mockRepository{})

	req := httptest.NewRequest("PUT", "/api/v1/sync/config", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()

	handler.UpdateSyncConfig(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}
