package product

import "context"

// ServiceInterface defines the contract for product business operations
type ServiceInterface interface {
	CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error)
	GetProduct(ctx context.Context, productUUID string) (*ProductResponse, error)
	ListProducts(ctx context.Context, labOnly bool, limit, offset int) ([]ProductResponse, int, error)
	UpdateProduct(ctx context.Context, productUUID string, req UpdateProductRequest) (*ProductResponse, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
