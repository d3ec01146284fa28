package patient

import (
	"context"
	"log"
	"time"

	"github.com/Abershum-Health/elis-sync-service/internal/elis"
	"github.com/Abershum-Health/elis-sync-service/internal/sequence"
	"github.com/Abershum-Health/elis-sync-service/internal/telemetry"
)

type Service struct {
	repo      RepositoryInterface
	sequences sequence.StoreInterface
	syncer    elis.SyncerInterface
	metrics   *telemetry.Metrics
}

func NewService(repo RepositoryInterface, sequences sequence.StoreInterface, syncer elis.SyncerInterface, metrics *telemetry.Metrics) *Service {
	return &Service{
		repo:      repo,
		sequences: sequences,
		syncer:    syncer,
		metrics:   metrics,
	}
}

// CreatePatient registers a patient. When the request carries no identifier
// one is drawn from the patient identifier sequence; a caller-supplied
// identifier is stored as-is and never consumes a sequence value.
func (s *Service) CreatePatient(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error) {
	if req.Name == "" {
		return nil, ErrMissingName
	}
	if err := validateGender(req.Gender); err != nil {
		return nil, err
	}

	birthdate, err := resolveBirthdate(req.Birthdate, req.Age, time.Now())
	if err != nil {
		return nil, err
	}

	identifier := req.Identifier
	minted := false
	if identifier == "" {
		identifier, err = s.sequences.NextIdentifier(ctx, sequence.PatientIdentifier)
		if err != nil {
			return nil, err
		}
		minted = true
	}

	patient := &Patient{
		Identifier:  identifier,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Birthdate:   birthdate,
		Gender:      req.Gender,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPatientOperation(ctx, "create")
		if minted {
			s.metrics.RecordIdentifierAssigned(ctx, sequence.PatientIdentifier)
		}
	}

	s.syncPatient(ctx, patient)

	resp := patient.Response()
	return &resp, nil
}

func (s *Service) GetPatient(ctx context.Context, patientUUID string) (*PatientResponse, error) {
	patient, err := s.repo.GetByUUID(ctx, patientUUID)
	if err != nil {
		return nil, err
	}
	resp := patient.Response()
	return &resp, nil
}

func (s *Service) GetPatientByIdentifier(ctx context.Context, identifier string) (*PatientResponse, error) {
	patient, err := s.repo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	resp := patient.Response()
	return &resp, nil
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]PatientResponse, int, error) {
	patients, total, err := s.repo.ListWithPagination(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PatientResponse, 0, len(patients))
	for i := range patients {
		responses = append(responses, patients[i].Response())
	}
	return responses, total, nil
}

// UpdatePatient applies a partial update. The identifier is immutable once
// assigned.
func (s *Service) UpdatePatient(ctx context.Context, patientUUID string, req UpdatePatientRequest) (*PatientResponse, error) {
	patient, err := s.repo.GetByUUID(ctx, patientUUID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrMissingName
		}
		patient.Name = *req.Name
	}
	if req.PhoneNumber != nil {
		patient.PhoneNumber = *req.PhoneNumber
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Birthdate != nil {
		birthdate, err := resolveBirthdate(*req.Birthdate, 0, time.Now())
		if err != nil {
			return nil, err
		}
		patient.Birthdate = birthdate
	}
	if req.Gender != nil {
		if err := validateGender(*req.Gender); err != nil {
			return nil, err
		}
		patient.Gender = *req.Gender
	}
	if req.IsActive != nil {
		patient.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPatientOperation(ctx, "update")
	}

	s.syncPatient(ctx, patient)

	resp := patient.Response()
	return &resp, nil
}

// syncPatient pushes the patient to OpenELIS best-effort. Sync problems are
// logged and stored for retry but never fail the registration itself.
func (s *Service) syncPatient(ctx context.Context, patient *Patient) {
	if s.syncer == nil {
		return
	}

	err := s.syncer.SyncPatient(ctx, elis.PatientRecord{
		Identifier: patient.Identifier,
		UUID:       patient.UUID,
		Name:       patient.Name,
		Phone:      patient.PhoneNumber,
		Email:      patient.Email,
		Birthdate:  patient.Birthdate,
		Gender:     patient.Gender,
	})
	if err != nil && !elis.IsSkip(err) {
		log.Printf("Patient %s saved but OpenELIS sync failed: %v", patient.Identifier, err)
	}
}

func validateGender(gender string) error {
	switch gender {
	case "", "M", "F", "O":
		return nil
	default:
		return ErrInvalidGender
	}
}

// resolveBirthdate validates an explicit birthdate, or derives one from an
// age when only the age is known (registration desks often get just the age).
func resolveBirthdate(birthdate string, age int, now time.Time) (string, error) {
	if birthdate != "" {
		born, err := time.Parse("2006-01-02", birthdate)
		if err != nil || born.After(now) {
			return "", ErrInvalidBirthdate
		}
		return birthdate, nil
	}
	if age > 0 {
		return now.AddDate(-age, 0, 0).Format("2006-01-02"), nil
	}
	return "", nil
}
