package order

import "context"

// ServiceInterface defines the contract for order business operations
type ServiceInterface interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error)
	GetOrder(ctx context.Context, orderUUID string) (*OrderResponse, error)
	ListOrders(ctx context.Context, limit, offset int) ([]OrderResponse, int, error)
	ConfirmOrder(ctx context.Context, orderUUID string) (*OrderResponse, error)
	CancelOrder(ctx context.Context, orderUUID string) (*OrderResponse, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
