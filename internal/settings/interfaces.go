package settings

import "context"

// RepositoryInterface defines the contract for settings storage
type RepositoryInterface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	LoadSyncConfig(ctx context.Context) (SyncConfig, error)
	ApplyUpdate(ctx context.Context, req UpdateSyncConfigRequest) error
}

// ConfigLoader is the narrow read-side used by the sync services. The
// configuration is re-read on every sync attempt so administrative changes
// take effect immediately.
type ConfigLoader interface {
	LoadSyncConfig(ctx context.Context) (SyncConfig, error)
}

// Ensure Repository implements both contracts
var (
	_ RepositoryInterface = (*Repository)(nil)
	_ ConfigLoader        = (*Repository)(nil)
)
