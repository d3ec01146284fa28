package product

import "time"

// Categories whose products are pushed to OpenELIS. Anything else (drugs,
// consultations, supplies) is invisible to the lab.
const (
	CategoryLabTest  = "Services/Lab/Test"
	CategoryLabPanel = "Services/Lab/Panel"
)

// Product is a sellable item. Lab tests and panels additionally carry the
// UUID OpenELIS knows them by.
type Product struct {
	UUID           string
	Name           string
	Code           string
	Description    string
	Category       string
	ListPrice      float64
	Active         bool
	ComponentUUIDs []string // member test UUIDs, panels only
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsSyncEligible reports whether the product belongs to a lab category.
func (p *Product) IsSyncEligible() bool {
	return p.Category == CategoryLabTest || p.Category == CategoryLabPanel
}

// IsPanel reports whether the product is a lab panel.
func (p *Product) IsPanel() bool {
	return p.Category == CategoryLabPanel
}

// TypeForCategory maps a lab category onto the type label OpenELIS expects
// on order lines. Non-lab categories have no type.
func TypeForCategory(category string) string {
	switch category {
	case CategoryLabTest:
		return "Test"
	case CategoryLabPanel:
		return "Panel"
	default:
		return ""
	}
}

// CreateProductRequest represents the request to create a product
type CreateProductRequest struct {
	Name           string   `json:"name" validate:"required"`
	Code           string   `json:"code"`
	Description    string   `json:"description"`
	Category       string   `json:"category" validate:"required"`
	ListPrice      float64  `json:"list_price"`
	ComponentUUIDs []string `json:"component_uuids,omitempty"`
}

// UpdateProductRequest represents the request to update a product
type UpdateProductRequest struct {
	Name           *string   `json:"name,omitempty"`
	Code           *string   `json:"code,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Category       *string   `json:"category,omitempty"`
	ListPrice      *float64  `json:"list_price,omitempty"`
	Active         *bool     `json:"active,omitempty"`
	ComponentUUIDs *[]string `json:"component_uuids,omitempty"`
}

// ProductResponse represents the product data returned to clients
type ProductResponse struct {
	UUID           string     `json:"uuid"`
	Name           string     `json:"name"`
	Code           string     `json:"code"`
	Description    string     `json:"description,omitempty"`
	Category       string     `json:"category"`
	ListPrice      float64    `json:"list_price"`
	Active         bool       `json:"active"`
	IsLabTest      bool       `json:"is_lab_test"`
	IsPanel        bool       `json:"is_panel"`
	ComponentUUIDs []string   `json:"component_uuids,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

func (p *Product) Response() ProductResponse {
	resp := ProductResponse{
		UUID:           p.UUID,
		Name:           p.Name,
		Code:           p.Code,
		Description:    p.Description,
		Category:       p.Category,
		ListPrice:      p.ListPrice,
		Active:         p.Active,
		IsLabTest:      p.IsSyncEligible(),
		IsPanel:        p.IsPanel(),
		ComponentUUIDs: p.ComponentUUIDs,
		CreatedAt:      p.CreatedAt,
	}
	if !p.UpdatedAt.IsZero() {
		updatedAt := p.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
