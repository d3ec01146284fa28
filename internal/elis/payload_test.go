package elis

import (
	"testing"
	"time"
)

func TestBuildPatientPayload(t *testing.T) {
	patient := PatientRecord{
		Identifier: "P000042",
		UUID:       "pat-uuid-1",
		Name:       "Abebe Bikila",
		Phone:      "+251911000000",
		Email:      "abebe@example.com",
		Birthdate:  "1990-05-14",
		Gender:     "M",
	}

	payload := BuildPatientPayload(patient)

	if payload.Ref != "P000042" {
		t.Errorf("Expected ref P000042, got %s", payload.Ref)
	}
	if payload.UUID != "pat-uuid-1" {
		t.Errorf("Expected uuid pat-uuid-1, got %s", payload.UUID)
	}
	if payload.Name != "Abebe Bikila" {
		t.Errorf("Expected name Abebe Bikila, got %s", payload.Name)
	}
	if payload.Birthdate != "1990-05-14" {
		t.Errorf("Expected birthdate 1990-05-14, got %s", payload.Birthdate)
	}
	if payload.Gender != "M" {
		t.Errorf("Expected gender M, got %s", payload.Gender)
	}
}

func TestBuildTestOrderPayload(t *testing.T) {
	order := OrderRecord{
		OrderUUID: "order-uuid-1",
		Reference: "SO-00042",
		OrderDate: time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC),
		Patient: PatientRecord{
			Identifier: "P000042",
			UUID:       "pat-uuid-1",
			Name:       "Abebe Bikila",
		},
		Lines: []OrderLineRecord{
			{ProductUUID: "prod-1", ProductName: "Hemoglobin", ProductType: "Test", Quantity: 1},
			{ProductUUID: "prod-2", ProductName: "Lipid Panel", ProductType: "Panel", Quantity: 1, Comment: "fasting"},
		},
	}

	payload := BuildTestOrderPayload(order)

	if payload.SampleUUID != "order-uuid-1" {
		t.Errorf("Expected sample_uuid order-uuid-1, got %s", payload.SampleUUID)
	}
	if payload.AccessionNumber != "SO-00042" {
		t.Errorf("Expected accession_number SO-00042, got %s", payload.AccessionNumber)
	}
	if payload.EntryDate != "2026-03-15" {
		t.Errorf("Expected entry_date 2026-03-15, got %s", payload.EntryDate)
	}
	if payload.Patient.Ref != "P000042" {
		t.Errorf("Expected patient ref P000042, got %s", payload.Patient.Ref)
	}
	if len(payload.OrderLines) != 2 {
		t.Fatalf("Expected 2 order lines, got %d", len(payload.OrderLines))
	}
	if payload.OrderLines[0].ProductType != "Test" {
		t.Errorf("Expected first line type Test, got %s", payload.OrderLines[0].ProductType)
	}
	if payload.OrderLines[1].Comment != "fasting" {
		t.Errorf("Expected second line comment fasting, got %s", payload.OrderLines[1].Comment)
	}
}

func TestBuildTestOrderPayload_ZeroDate(t *testing.T) {
	payload := BuildTestOrderPayload(OrderRecord{OrderUUID: "order-uuid-2"})

	if payload.EntryDate != "" {
		t.Errorf("Expected empty entry_date for zero order date, got %s", payload.EntryDate)
	}
	if payload.OrderLines == nil {
		t.Error("Expected empty order_lines slice, got nil")
	}
}

func TestBuildLabTestPayload(t *testing.T) {
	test := LabTestRecord{
		ProductUUID:    "prod-uuid-1",
		Name:           "Complete Blood Count",
		Code:           "CBC",
		Category:       "Services/Lab/Panel",
		Active:         true,
		ListPrice:      120,
		IsPanel:        true,
		ComponentUUIDs: []string{"prod-uuid-2", "prod-uuid-3"},
	}

	payload := BuildLabTestPayload(test)

	if payload.UUID != "prod-uuid-1" {
		t.Errorf("Expected uuid prod-uuid-1, got %s", payload.UUID)
	}
	if !payload.IsPanel {
		t.Error("Expected is_panel true")
	}
	if len(payload.TestUUIDs) != 2 {
		t.Errorf("Expected 2 test uuids, got %d", len(payload.TestUUIDs))
	}
}

func TestBuildLabTestPayload_NilComponents(t *testing.T) {
	payload := BuildLabTestPayload(LabTestRecord{ProductUUID: "prod-uuid-1", Name: "Hemoglobin"})

	if payload.TestUUIDs == nil {
		t.Error("Expected empty test_uuids slice, got nil")
	}
	if len(payload.TestUUIDs) != 0 {
		t.Errorf("Expected 0 test uuids, got %d", len(payload.TestUUIDs))
	}
}
