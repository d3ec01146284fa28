package order

import "time"

// Order statuses. Confirmation is the only transition that triggers the
// OpenELIS push.
const (
	StatusDraft     = "draft"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Order is a sale order holding requested products for one patient.
type Order struct {
	UUID        string
	Reference   string
	PatientUUID string
	Status      string
	OrderDate   time.Time
	ConfirmedAt time.Time
	Lines       []Line
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Line is one ordered product. Product name and category are denormalized at
// read time so confirmation does not re-query the catalog per line.
type Line struct {
	ID              int64
	ProductUUID     string
	ProductName     string
	ProductCategory string
	Quantity        float64
	UnitPrice       float64
	Comment         string
}

// CreateOrderRequest represents the request to create a draft order
type CreateOrderRequest struct {
	PatientUUID string              `json:"patient_uuid" validate:"required"`
	OrderDate   string              `json:"order_date"` // Format: YYYY-MM-DD, defaults to today
	Lines       []CreateLineRequest `json:"lines" validate:"required"`
}

type CreateLineRequest struct {
	ProductUUID string  `json:"product_uuid" validate:"required"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Comment     string  `json:"comment"`
}

// OrderResponse represents the order data returned to clients
type OrderResponse struct {
	UUID        string         `json:"uuid"`
	Reference   string         `json:"reference"`
	PatientUUID string         `json:"patient_uuid"`
	Status      string         `json:"status"`
	OrderDate   string         `json:"order_date"`
	ConfirmedAt *time.Time     `json:"confirmed_at,omitempty"`
	Lines       []LineResponse `json:"lines"`
	CreatedAt   time.Time      `json:"created_at"`
}

type LineResponse struct {
	ProductUUID     string  `json:"product_uuid"`
	ProductName     string  `json:"product_name"`
	ProductCategory string  `json:"product_category"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	Comment         string  `json:"comment,omitempty"`
	IsLabTest       bool    `json:"is_lab_test"`
}

func (o *Order) Response() OrderResponse {
	lines := make([]LineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, LineResponse{
			ProductUUID:     l.ProductUUID,
			ProductName:     l.ProductName,
			ProductCategory: l.ProductCategory,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			Comment:         l.Comment,
			IsLabTest:       isLabCategory(l.ProductCategory),
		})
	}

	resp := OrderResponse{
		UUID:        o.UUID,
		Reference:   o.Reference,
		PatientUUID: o.PatientUUID,
		Status:      o.Status,
		OrderDate:   o.OrderDate.Format("2006-01-02"),
		Lines:       lines,
		CreatedAt:   o.CreatedAt,
	}
	if !o.ConfirmedAt.IsZero() {
		confirmedAt := o.ConfirmedAt
		resp.ConfirmedAt = &confirmedAt
	}
	return resp
}
