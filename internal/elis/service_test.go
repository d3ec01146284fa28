package elis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Abershum-Health/elis-sync-service/internal/messaging"
	"github.com/Abershum-Health/elis-sync-service/internal/settings"
	"github.com/Abershum-Health/elis-sync-service/internal/testutil"
)

// mockClient implements ClientInterface for testing
type mockClient struct {
	postFunc func(ctx context.Context, cfg settings.SyncConfig, endpoint string, payload interface{}) error
	calls    []mockPostCall
}

type mockPostCall struct {
	endpoint string
	payload  interface{}
}

func (m *mockClient) Post(ctx context.Context, cfg settings.SyncConfig, endpoint string, payload interface{}) error {
	m.calls = append(m.calls, mockPostCall{endpoint: endpoint, payload: payload})
	if m.postFunc != nil {
		return m.postFunc(ctx, cfg, endpoint, payload)
	}
	return nil
}

// mockConfigLoader implements settings.ConfigLoader for testing
type mockConfigLoader struct {
	config settings.SyncConfig
	err    error
}

func (m *mockConfigLoader) LoadSyncConfig(ctx context.Context) (settings.SyncConfig, error) {
	return m.config, m.err
}

// mockFailedEventRepo implements FailedEventRepositoryInterface for testing
type mockFailedEventRepo struct {
	recordFunc      func(ctx context.Context, kind, subjectUUID, reference string, payload interface{}, syncErr error) error
	getFunc         func(ctx context.Context, id int64) (*FailedEvent, error)
	dueForRetryFunc func(ctx context.Context, limit int) ([]FailedEvent, error)
	markFailedFunc  func(ctx context.Context, id int64, syncErr error) error
	deleteFunc      func(ctx context.Context, id int64) error

	recorded   []mockRecordedEvent
	markedIDs  []int64
	deletedIDs []int64
}

type mockRecordedEvent struct {
	kind        string
	subjectUUID string
	reference   string
}

func (m *mockFailedEventRepo) Record(ctx context.Context, kind, subjectUUID, reference string, payload interface{}, syncErr error) error {
	m.recorded = append(m.recorded, mockRecordedEvent{kind: kind, subjectUUID: subjectUUID, reference: reference})
	if m.recordFunc != nil {
		return m.recordFunc(ctx, kind, subjectUUID, reference, payload, syncErr)
	}
	return nil
}

func (m *mockFailedEventRepo) Get(ctx context.Context, id int64) (*FailedEvent, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, ErrEventNotFound
}

func (m *mockFailedEventRepo) List(ctx context.Context, limit, offset int) ([]FailedEvent, int, error) {
	return nil, 0, nil
}

func (m *mockFailedEventRepo) DueForRetry(ctx context.Context, limit int) ([]FailedEvent, error) {
	if m.dueForRetryFunc != nil {
		return m.dueForRetryFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockFailedEventRepo) MarkFailed(ctx context.Context, id int64, syncErr error) error {
	m.markedIDs = append(m.markedIDs, id)
	if m.markFailedFunc != nil {
		return m.markFailedFunc(ctx, id, syncErr)
	}
	return nil
}

func (m *mockFailedEventRepo) Delete(ctx context.Context, id int64) error {
	m.deletedIDs = append(m.deletedIDs, id)
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func enabledConfig() settings.SyncConfig {
	return settings.SyncConfig{
		EnableTestOrderSync: true,
		EnablePatientSync:   true,
		EnableLabTestSync:   true,
		APIURL:              "http://elis.example.com",
	}
}

func testOrderRecord() OrderRecord {
	return OrderRecord{
		OrderUUID: "order-uuid-1",
		Reference: "SO-00042",
		Patient:   PatientRecord{Identifier: "P000042", UUID: "pat-uuid-1", Name: "Abebe Bikila"},
		Lines: []OrderLineRecord{
			{ProductUUID: "prod-1", ProductName: "Hemoglobin", ProductType: "Test", Quantity: 1},
		},
	}
}

func TestSyncTestOrder_Success(t *testing.T) {
	client := &mockClient{}
	failed := &mockFailedEventRepo{}
	publisher := testutil.NewMockPublisher()
	service := NewService(client, &mockConfigLoader{config: enabledConfig()}, failed, publisher, nil)

	err := service.SyncTestOrder(context.Background(), testOrderRecord())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(client.calls) != 1 {
		t.Fatalf("Expected 1 POST, got %d", len(client.calls))
	}
	if client.calls[0].endpoint != EndpointTestOrder {
		t.Errorf("Expected endpoint %s, got %s", EndpointTestOrder, client.calls[0].endpoint)
	}
	if len(failed.recorded) != 0 {
		t.Errorf("Expected no failed events, got %d", len(failed.recorded))
	}
	publisher.AssertEventPublished(t, messaging.EventSyncSucceeded)
	publisher.AssertEventNotPublished(t, messaging.EventSyncFailed)
}

func TestSyncTestOrder_Disabled(t *testing.T) {
	client := &mockClient{}
	cfg := enabledConfig()
	cfg.EnableTestOrderSync = false
	service := NewService(client, &mockConfigLoader{config: cfg}, &mockFailedEventRepo{}, testutil.NewMockPublisher(), nil)

	err := service.SyncTestOrder(context.Background(), testOrderRecord())
	if !errors.Is(err, ErrSyncDisabled) {
		t.Fatalf("Expected ErrSyncDisabled, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Errorf("Expected no POST when sync is disabled, got %d", len(client.calls))
	}
}

func TestSyncTestOrder_NoLines(t *testing.T) {
	client := &mockClient{}
	service := NewService(client, &mockConfigLoader{config: enabledConfig()}, &mockFailedEventRepo{}, testutil.NewMockPublisher(), nil)

	order := testOrderRecord()
	order.Lines = nil

	err := service.SyncTestOrder(context.Background(), order)
	if !errors.Is(err, ErrNothingToSync) {
		t.Fatalf("Expected ErrNothingToSync, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Errorf("Expected no POST for an order without lab lines, got %d", len(client.calls))
	}
}

func TestSyncTestOrder_FailureRecordsEvent(t *testing.T) {
	postErr := &StatusError{StatusCode: 502, Body: "bad gateway"}
	client := &mockClient{
		postFunc: func(ctx context.Context, cfg settings.SyncConfig, endpoint string, payload interface{}) error {
			return postErr
		},
	}
	failed := &mockFailedEventRepo{}
	publisher := testutil.NewMockPublisher()
	service := NewService(client, &mockConfigLoader{config: enabledConfig()}, failed, publisher, nil)

	err := service.SyncTestOrder(context.Background(), testOrderRecord())
	if !errors.Is(err, postErr) {
		t.Fatalf("Expected the POST error back, got %v", err)
	}

	if len(failed.recorded) != 1 {
		t.Fatalf("Expected 1 failed event, got %d", len(failed.recorded))
	}
	if failed.recorded[0].kind != KindTestOrder {
		t.Errorf("Expected kind %s, got %s", KindTestOrder, failed.recorded[0].kind)
	}
	if failed.recorded[0].subjectUUID != "order-uuid-1" {
		t.Errorf("Expected subject order-uuid-1, got %s", failed.recorded[0].subjectUUID)
	}

	publisher.AssertEventPublished(t, messaging.EventSyncFailed)
	publisher.AssertEventNotPublished(t, messaging.EventSyncSucceeded)
}

func TestSyncPatient_Success(t *testing.T) {
	client := &mockClient{}
	service := NewService(client, &mockConfigLoader{config: enabledConfig()}, &mockFailedEventRepo{}, testutil.NewMockPublisher(), nil)

	patient := PatientRecord{Identifier: "P000042", UUID: "pat-uuid-1", Name: "Abebe Bikila"}
	if err := service.SyncPatient(context.Background(), patient); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(client.calls) != 1 || client.calls[0].endpoint != EndpointPatient {
		t.Fatalf("Expected one POST to %s, got %+v", EndpointPatient, client.calls)
	}
	payload, ok := client.calls[0].payload.(PatientPayload)
	if !ok {
		t.Fatalf("Expected PatientPayload, got %T", client.calls[0].payload)
	}
	if payload.Ref != "P000042" {
		t.Errorf("Expected ref P000042, got %s", payload.Ref)
	}
}

func TestSyncPatient_Disabled(t *testing.T) {
	client := &mockClient{}
	cfg := enabledConfig()
	cfg.EnablePatientSync = false
	service := NewService(client, &mockConfigLoader{config: cfg}, &mockFailedEventRepo{}, testutil.NewMockPublisher(), nil)

	err := service.SyncPatient(context.Background(), PatientRecord{Identifier: "P000042"})
	if !errors.Is(err, ErrSyncDisabled) {
		t.Fatalf("Expected ErrSyncDisabled, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Errorf("Expected no POST when patient sync is disabled, got %d", len(client.calls))
	}
}

func TestSyncLabTest_FailureRecordsEvent(t *testing.T) {
	client := &mockClient{
		postFunc: func(ctx context.Context, cfg settings.SyncConfig, endpoint string, payload interface{}) error {
			return errors.New("connection refused")
		},
	}
	failed := &mockFailedEventRepo{}
	service := NewService(client, &mockConfigLoader{config: enabledConfig()}, failed, testutil.NewMockPublisher(), nil)

	test := LabTestRecord{ProductUUID: "prod-uuid-1", Name: "Hemoglobin", Code: "HGB"}
	if err := service.SyncLabTest(context.Background(), test); err == nil {
		t.Fatal("Expected error from failed POST")
	}

	if len(failed.recorded) != 1 {
		t.Fatalf("Expected 1 failed event, got %d", len(failed.recorded))
	}
	if failed.recorded[0].kind != KindLabTest {
		t.Errorf("Expected kind %s, got %s", KindLabTest, failed.recorded[0].kind)
	}
	if failed.recorded[0].reference != "HGB" {
		t.Errorf("Expected reference HGB, got %s", failed.recorded[0].reference)
	}
}

func TestSyncService_ConfigLoadError(t *testing.T) {
	loadErr := errors.New("database unavailable")
	client := &mockClient{}
	service := NewService(client, &mockConfigLoader{err: loadErr}, &mockFailedEventRepo{}, testutil.NewMockPublisher(), nil)

	if err := service.SyncTestOrder(context.Background(), testOrderRecord()); !errors.Is(err, loadErr) {
		t.Fatalf("Expected config load error back, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Errorf("Expected no POST when config cannot be loaded, got %d", len(client.calls))
	}
}

func TestIsSkip(t *testing.T) {
	if !IsSkip(ErrSyncDisabled) {
		t.Error("Expected ErrSyncDisabled to be a skip")
	}
	if !IsSkip(ErrNothingToSync) {
		t.Error("Expected ErrNothingToSync to be a skip")
	}
	if IsSkip(errors.New("connection refused")) {
		t.Error("Expected a real failure not to be a skip")
	}
	if IsSkip(nil) {
		t.Error("Expected nil not to be a skip")
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"http status", &StatusError{StatusCode: 502, Body: "bad gateway"}, "HTTP 502"},
		{"not configured", ErrNotConfigured, "NotConfigured"},
		{"generic", errors.New("connection refused"), "ConnectionError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.err); got != tt.expected {
				t.Errorf("classifyError() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestFailedEvent_Endpoint(t *testing.T) {
	tests := []struct {
		kind     string
		expected string
	}{
		{KindTestOrder, EndpointTestOrder},
		{KindPatient, EndpointPatient},
		{KindLabTest, EndpointLabTest},
	}

	for _, tt := range tests {
		event := FailedEvent{Kind: tt.kind, Payload: json.RawMessage(`{}`)}
		if got := event.Endpoint(); got != tt.expected {
			t.Errorf("Endpoint() for %s = %s, expected %s", tt.kind, got, tt.expected)
		}
	}
}
