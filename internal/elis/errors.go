package elis

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means the OpenELIS API URL is missing from the
	// sync configuration.
	ErrNotConfigured = errors.New("openelis api url not configured")
	// ErrSyncDisabled means the relevant enable flag is off; no call is made.
	ErrSyncDisabled = errors.New("sync disabled")
	// ErrNothingToSync means the order carries no lab-test lines.
	ErrNothingToSync = errors.New("no lab test lines to sync")
	// ErrEventNotFound means the failed event does not exist (or was already
	// resolved).
	ErrEventNotFound = errors.New("failed event not found")
)

// StatusError is returned when OpenELIS answers with a non-2xx status.
// The body is kept only for logging; it is never parsed for business data.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("openelis returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("openelis returned HTTP %d: %s", e.StatusCode, e.Body)
}
