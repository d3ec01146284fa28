package elis

import "time"

// Input records for the payload builders. They are plain snapshots of the
// host records so the builders stay pure functions with no storage access.

// PatientRecord is the patient snapshot sent to OpenELIS.
type PatientRecord struct {
	Identifier string
	UUID       string
	Name       string
	Phone      string
	Email      string
	Birthdate  string // YYYY-MM-DD, may be empty
	Gender     string
}

// OrderLineRecord is one lab-test or panel line of a confirmed order.
type OrderLineRecord struct {
	ProductUUID string
	ProductName string
	ProductType string // "Test" or "Panel"
	Quantity    float64
	Comment     string
}

// OrderRecord is a confirmed order with only its sync-eligible lines.
type OrderRecord struct {
	OrderUUID string
	Reference string
	OrderDate time.Time
	Patient   PatientRecord
	Lines     []OrderLineRecord
}

// LabTestRecord is a lab-test or panel product definition.
type LabTestRecord struct {
	ProductUUID    string
	Name           string
	Code           string
	Description    string
	Category       string
	Active         bool
	ListPrice      float64
	IsPanel        bool
	ComponentUUIDs []string
}
