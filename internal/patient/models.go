package patient

import "time"

// Patient is the stored patient record. The identifier is the human-facing
// registration number (e.g. P000001); the UUID is the stable machine key
// shared with OpenELIS.
type Patient struct {
	UUID        string
	Identifier  string
	Name        string
	PhoneNumber string
	Email       string
	Birthdate   string // YYYY-MM-DD, empty when unknown
	Gender      string // M, F or O
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePatientRequest represents the request to register a new patient
type CreatePatientRequest struct {
	Identifier  string `json:"identifier"` // optional, minted when empty
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Birthdate   string `json:"birthdate"` // Format: YYYY-MM-DD
	Age         int    `json:"age"`       // used only when birthdate is empty
	Gender      string `json:"gender"`
}

// UpdatePatientRequest represents the request to update a patient
type UpdatePatientRequest struct {
	Name        *string `json:"name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Email       *string `json:"email,omitempty"`
	Birthdate   *string `json:"birthdate,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// PatientResponse represents the patient data returned to clients
type PatientResponse struct {
	UUID        string     `json:"uuid"`
	Identifier  string     `json:"identifier"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phone_number"`
	Email       string     `json:"email"`
	Birthdate   string     `json:"birthdate,omitempty"`
	Age         int        `json:"age,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Response converts a stored patient into its API shape. Age is derived from
// the birthdate at response time so it never goes stale in storage.
func (p *Patient) Response() PatientResponse {
	resp := PatientResponse{
		UUID:        p.UUID,
		Identifier:  p.Identifier,
		Name:        p.Name,
		PhoneNumber: p.PhoneNumber,
		Email:       p.Email,
		Birthdate:   p.Birthdate,
		Age:         ageFromBirthdate(p.Birthdate, time.Now()),
		Gender:      p.Gender,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
	if !p.UpdatedAt.IsZero() {
		updatedAt := p.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

func ageFromBirthdate(birthdate string, now time.Time) int {
	if birthdate == "" {
		return 0
	}
	born, err := time.Parse("2006-01-02", birthdate)
	if err != nil {
		return 0
	}
	age := now.Year() - born.Year()
	if now.YearDay() < born.YearDay() {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
