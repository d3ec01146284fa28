package order

import (
	"context"
	"time"
)

// RepositoryInterface defines the contract for order storage
type RepositoryInterface interface {
	Create(ctx context.Context, order *Order) error
	GetByUUID(ctx context.Context, orderUUID string) (*Order, error)
	ListWithPagination(ctx context.Context, limit, offset int) ([]Order, int, error)
	Confirm(ctx context.Context, orderUUID string, confirmedAt time.Time) error
	Cancel(ctx context.Context, orderUUID string) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
