package sequence

import "context"

// StoreInterface defines the contract for drawing sequence values
type StoreInterface interface {
	NextIdentifier(ctx context.Context, name string) (string, error)
	Ensure(ctx context.Context, name, prefix string, padding int, start int64) error
}

// Ensure Store implements StoreInterface
var _ StoreInterface = (*Store)(nil)
