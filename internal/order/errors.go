package order

import "errors"

var (
	ErrMissingPatient   = errors.New("patient is required")
	ErrMissingLines     = errors.New("at least one order line is required")
	ErrInvalidQuantity  = errors.New("line quantity must be positive")
	ErrInvalidOrderDate = errors.New("order date must be YYYY-MM-DD")
	ErrOrderNotFound    = errors.New("order not found")
	ErrNotDraft         = errors.New("only draft orders can be confirmed")
	ErrAlreadyCancelled = errors.New("order is cancelled")
)
