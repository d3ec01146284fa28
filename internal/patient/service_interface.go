package patient

import "context"

// ServiceInterface defines the contract for patient business operations
type ServiceInterface interface {
	CreatePatient(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error)
	GetPatient(ctx context.Context, patientUUID string) (*PatientResponse, error)
	GetPatientByIdentifier(ctx context.Context, identifier string) (*PatientResponse, error)
	ListPatients(ctx context.Context, limit, offset int) ([]PatientResponse, int, error)
	UpdatePatient(ctx context.Context, patientUUID string, req UpdatePatientRequest) (*PatientResponse, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
