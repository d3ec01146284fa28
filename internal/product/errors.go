package product

import "errors"

var (
	ErrMissingName        = errors.New("product name is required")
	ErrMissingCategory    = errors.New("product category is required")
	ErrCodeTaken          = errors.New("product code already in use")
	ErrProductNotFound    = errors.New("product not found")
	ErrComponentsNotPanel = errors.New("component tests are only valid on a lab panel")
)
