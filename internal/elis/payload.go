package elis

// Wire payloads for the OpenELIS odoo-integration endpoints. Field names
// follow what OpenELIS expects on /rest/odoo/*.

// PatientPayload describes a patient for /rest/odoo/patient and for the
// patient block of a test order.
type PatientPayload struct {
	Ref       string `json:"ref"`
	UUID      string `json:"uuid"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Birthdate string `json:"birthdate"`
	Gender    string `json:"gender"`
}

// OrderLinePayload describes one requested test or panel.
type OrderLinePayload struct {
	ProductUUID string  `json:"product_uuid"`
	ProductName string  `json:"product_name"`
	ProductType string  `json:"product_type"`
	Quantity    float64 `json:"quantity"`
	Comment     string  `json:"comment"`
}

// TestOrderPayload is the body for /rest/odoo/test-order. The order UUID is
// the sample identifier and the order reference is the accession number.
type TestOrderPayload struct {
	SampleUUID      string             `json:"sample_uuid"`
	AccessionNumber string             `json:"accession_number"`
	EntryDate       string             `json:"entry_date"`
	Patient         PatientPayload     `json:"patient"`
	OrderLines      []OrderLinePayload `json:"order_lines"`
}

// LabTestPayload is the body for /rest/odoo/test.
type LabTestPayload struct {
	UUID        string   `json:"uuid"`
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Active      bool     `json:"active"`
	ListPrice   float64  `json:"list_price"`
	IsPanel     bool     `json:"is_panel"`
	TestUUIDs   []string `json:"test_uuids"`
}

// BuildPatientPayload maps a patient record onto the wire format.
func BuildPatientPayload(p PatientRecord) PatientPayload {
	return PatientPayload{
		Ref:       p.Identifier,
		UUID:      p.UUID,
		Name:      p.Name,
		Phone:     p.Phone,
		Email:     p.Email,
		Birthdate: p.Birthdate,
		Gender:    p.Gender,
	}
}

// BuildTestOrderPayload maps a confirmed order onto the wire format.
func BuildTestOrderPayload(order OrderRecord) TestOrderPayload {
	lines := make([]OrderLinePayload, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, OrderLinePayload{
			ProductUUID: l.ProductUUID,
			ProductName: l.ProductName,
			ProductType: l.ProductType,
			Quantity:    l.Quantity,
			Comment:     l.Comment,
		})
	}

	entryDate := ""
	if !order.OrderDate.IsZero() {
		entryDate = order.OrderDate.Format("2006-01-02")
	}

	return TestOrderPayload{
		SampleUUID:      order.OrderUUID,
		AccessionNumber: order.Reference,
		EntryDate:       entryDate,
		Patient:         BuildPatientPayload(order.Patient),
		OrderLines:      lines,
	}
}

// BuildLabTestPayload maps a lab-test product onto the wire format.
func BuildLabTestPayload(t LabTestRecord) LabTestPayload {
	uuids := t.ComponentUUIDs
	if uuids == nil {
		uuids = []string{}
	}
	return LabTestPayload{
		UUID:        t.ProductUUID,
		Name:        t.Name,
		Code:        t.Code,
		Description: t.Description,
		Category:    t.Category,
		Active:      t.Active,
		ListPrice:   t.ListPrice,
		IsPanel:     t.IsPanel,
		TestUUIDs:   uuids,
	}
}
