package product

import "context"

// RepositoryInterface defines the contract for product storage
type RepositoryInterface interface {
	Create(ctx context.Context, product *Product) error
	GetByUUID(ctx context.Context, productUUID string) (*Product, error)
	ListWithPagination(ctx context.Context, labOnly bool, limit, offset int) ([]Product, int, error)
	Update(ctx context.Context, product *Product) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
