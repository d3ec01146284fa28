package patient

import "context"

// RepositoryInterface defines the contract for patient storage
type RepositoryInterface interface {
	Create(ctx context.Context, patient *Patient) error
	GetByUUID(ctx context.Context, patientUUID string) (*Patient, error)
	GetByIdentifier(ctx context.Context, identifier string) (*Patient, error)
	ListWithPagination(ctx context.Context, limit, offset int) ([]Patient, int, error)
	Update(ctx context.Context, patient *Patient) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
