package patient

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/Abershum-Health/elis-sync-service/internal/messaging"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Repository struct {
	db        *sql.DB
	publisher messaging.PublisherInterface
}

func NewRepository(db *sql.DB, publisher messaging.PublisherInterface) *Repository {
	return &Repository{
		db:        db,
		publisher: publisher,
	}
}

func (r *Repository) Create(ctx context.Context, patient *Patient) error {
	patient.UUID = uuid.New().String()
	patient.CreatedAt = time.Now()
	patient.IsActive = true

	query := `
		INSERT INTO patients (uuid, identifier, name, phone_number, email, birthdate, gender, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::date, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		patient.UUID,
		patient.Identifier,
		patient.Name,
		patient.PhoneNumber,
		patient.Email,
		patient.Birthdate,
		patient.Gender,
		patient.IsActive,
		patient.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrIdentifierTaken
		}
		return fmt.Errorf("failed to create patient: %w", err)
	}

	log.Printf("Created patient %s (%s)", patient.Identifier, patient.Name)

	// Publish patient.created event
	if r.publisher != nil {
		event := messaging.PatientCreatedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventPatientCreated),
			Data: messaging.PatientCreatedData{
				PatientUUID: patient.UUID,
				Identifier:  patient.Identifier,
				Name:        patient.Name,
				Email:       patient.Email,
				PhoneNumber: patient.PhoneNumber,
				CreatedAt:   patient.CreatedAt,
			},
		}
		if err := r.publisher.Publish(ctx, messaging.EventPatientCreated, event); err != nil {
			log.Printf("Warning: failed to publish patient.created event: %v", err)
		}
	}

	return nil
}

func (r *Repository) GetByUUID(ctx context.Context, patientUUID string) (*Patient, error) {
	query := `
		SELECT uuid, identifier, name, phone_number, email,
		       COALESCE(to_char(birthdate, 'YYYY-MM-DD'), ''), gender, is_active, created_at, updated_at
		FROM patients
		WHERE uuid = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, patientUUID))
}

func (r *Repository) GetByIdentifier(ctx context.Context, identifier string) (*Patient, error) {
	query := `
		SELECT uuid, identifier, name, phone_number, email,
		       COALESCE(to_char(birthdate, 'YYYY-MM-DD'), ''), gender, is_active, created_at, updated_at
		FROM patients
		WHERE identifier = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, identifier))
}

// ListWithPagination retrieves patients with pagination support
func (r *Repository) ListWithPagination(ctx context.Context, limit, offset int) ([]Patient, int, error) {
	var totalCount int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM patients`).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	query := `
		SELECT uuid, identifier, name, phone_number, email,
		       COALESCE(to_char(birthdate, 'YYYY-MM-DD'), ''), gender, is_active, created_at, updated_at
		FROM patients
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var patients []Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, *patient)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating patients: %w", err)
	}

	return patients, totalCount, nil
}

func (r *Repository) Update(ctx context.Context, patient *Patient) error {
	patient.UpdatedAt = time.Now()

	query := `
		UPDATE patients
		SET name = $1, phone_number = $2, email = $3,
		    birthdate = NULLIF($4, '')::date, gender = $5, is_active = $6, updated_at = $7
		WHERE uuid = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.PhoneNumber,
		patient.Email,
		patient.Birthdate,
		patient.Gender,
		patient.IsActive,
		patient.UpdatedAt,
		patient.UUID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrPatientNotFound
	}

	log.Printf("Updated patient %s (%s)", patient.Identifier, patient.Name)

	// Publish patient.updated event
	if r.publisher != nil {
		event := messaging.PatientUpdatedEvent{
			BaseEvent: messaging.NewBaseEvent(messaging.EventPatientUpdated),
			Data: messaging.PatientUpdatedData{
				PatientUUID: patient.UUID,
				Identifier:  patient.Identifier,
				UpdatedAt:   patient.UpdatedAt,
			},
		}
		if err := r.publisher.Publish(ctx, messaging.EventPatientUpdated, event); err != nil {
			log.Printf("Warning: failed to publish patient.updated event: %v", err)
		}
	}

	return nil
}

func (r *Repository) scanOne(row *sql.Row) (*Patient, error) {
	patient, err := scanPatient(row)
	if err == sql.ErrNoRows {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPatient(row rowScanner) (*Patient, error) {
	var patient Patient
	var phoneNumber sql.NullString
	var email sql.NullString
	var gender sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&patient.UUID,
		&patient.Identifier,
		&patient.Name,
		&phoneNumber,
		&email,
		&patient.Birthdate,
		&gender,
		&patient.IsActive,
		&patient.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if phoneNumber.Valid {
		patient.PhoneNumber = phoneNumber.String
	}
	if email.Valid {
		patient.Email = email.String
	}
	if gender.Valid {
		patient.Gender = gender.String
	}
	if updatedAt.Valid {
		patient.UpdatedAt = updatedAt.Time
	}

	return &patient, nil
}
