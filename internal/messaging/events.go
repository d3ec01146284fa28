package messaging

import (
	"fmt"
	"time"
)

// Event routing keys as constants
const (
	// Patient lifecycle events
	EventPatientCreated = "patient.created"
	EventPatientUpdated = "patient.updated"

	// Order lifecycle events
	EventOrderConfirmed = "order.confirmed"

	// OpenELIS sync outcome events
	EventSyncSucceeded = "sync.succeeded"
	EventSyncFailed    = "sync.failed"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// PatientCreatedEvent represents a patient creation event
type PatientCreatedEvent struct {
	BaseEvent
	Data PatientCreatedData `json:"data"`
}

type PatientCreatedData struct {
	PatientUUID string    `json:"patient_uuid"`
	Identifier  string    `json:"identifier"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// PatientUpdatedEvent represents a patient update event
type PatientUpdatedEvent struct {
	BaseEvent
	Data PatientUpdatedData `json:"data"`
}

type PatientUpdatedData struct {
	PatientUUID string    `json:"patient_uuid"`
	Identifier  string    `json:"identifier"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrderConfirmedEvent represents an order confirmation event
type OrderConfirmedEvent struct {
	BaseEvent
	Data OrderConfirmedData `json:"data"`
}

type OrderConfirmedData struct {
	OrderUUID     string    `json:"order_uuid"`
	Reference     string    `json:"reference"`
	PatientUUID   string    `json:"patient_uuid"`
	LabTestLines  int       `json:"lab_test_lines"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
	SyncAttempted bool      `json:"sync_attempted"`
}

// SyncResultEvent represents the outcome of an OpenELIS sync attempt
type SyncResultEvent struct {
	BaseEvent
	Data SyncResultData `json:"data"`
}

type SyncResultData struct {
	Kind        string    `json:"kind"` // "patient", "test_order" or "lab_test"
	SubjectUUID string    `json:"subject_uuid"`
	Reference   string    `json:"reference,omitempty"`
	Error       string    `json:"error,omitempty"`
	AttemptedAt time.Time `json:"attempted_at"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     fmt.Sprintf("%d", time.Now().UnixNano()),
		Timestamp:   time.Now().UTC(),
		ServiceName: "elis-sync-service",
	}
}
