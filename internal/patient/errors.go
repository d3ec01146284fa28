package patient

import "errors"

var (
	ErrMissingName      = errors.New("name is required")
	ErrInvalidGender    = errors.New("gender must be M, F or O")
	ErrInvalidBirthdate = errors.New("birthdate must be YYYY-MM-DD and not in the future")
	ErrIdentifierTaken  = errors.New("patient identifier already in use")
	ErrPatientNotFound  = errors.New("patient not found")
)
