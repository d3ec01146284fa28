package elis

import (
	"context"

	"github.com/Abershum-Health/elis-sync-service/internal/settings"
)

// ClientInterface defines the contract for the OpenELIS REST client
type ClientInterface interface {
	Post(ctx context.Context, cfg settings.SyncConfig, endpoint string, payload interface{}) error
}

// SyncerInterface is what the patient/product/order services call. Every
// method is best-effort: the caller logs the returned error but never fails
// the surrounding business transaction because of it.
type SyncerInterface interface {
	SyncTestOrder(ctx context.Context, order OrderRecord) error
	SyncPatient(ctx context.Context, patient PatientRecord) error
	SyncLabTest(ctx context.Context, test LabTestRecord) error
}

// FailedEventRepositoryInterface defines the contract for the failed-event store
type FailedEventRepositoryInterface interface {
	Record(ctx context.Context, kind, subjectUUID, reference string, payload interface{}, syncErr error) error
	Get(ctx context.Context, id int64) (*FailedEvent, error)
	List(ctx context.Context, limit, offset int) ([]FailedEvent, int, error)
	DueForRetry(ctx context.Context, limit int) ([]FailedEvent, error)
	MarkFailed(ctx context.Context, id int64, syncErr error) error
	Delete(ctx context.Context, id int64) error
}

// Ensure implementations satisfy their contracts
var (
	_ ClientInterface                = (*Client)(nil)
	_ SyncerInterface                = (*Service)(nil)
	_ FailedEventRepositoryInterface = (*FailedEventRepository)(nil)
)
