package elis

import (
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"time"
)

// Failed event states. Success is not a state: a successfully retried event
// is deleted.
const (
	StatePending = "pending"
	StateFailed  = "failed"
)

// retryBackoff is the per-retry delay step; the n-th retry waits n*15min.
const retryBackoff = 15 * time.Minute

// FailedEvent is a sync attempt that OpenELIS rejected or that never reached
// it. One live row exists per subject; a newer failure for the same subject
// replaces the payload but keeps the row's FIFO position.
type FailedEvent struct {
	ID           int64           `json:"id"`
	Kind         string          `json:"kind"`
	SubjectUUID  string          `json:"subject_uuid"`
	Reference    string          `json:"reference"`
	Payload      json.RawMessage `json:"payload"`
	ErrorMessage string          `json:"error_message"`
	ErrorType    string          `json:"error_type"`
	RetryCount   int             `json:"retry_count"`
	State        string          `json:"state"`
	NextRetryAt  *time.Time      `json:"next_retry_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

// Endpoint returns the OpenELIS endpoint a retry of this event must target.
func (e *FailedEvent) Endpoint() string {
	switch e.Kind {
	case KindPatient:
		return EndpointPatient
	case KindLabTest:
		return EndpointLabTest
	default:
		return EndpointTestOrder
	}
}

// classifyError buckets a sync error the way operators expect to filter on.
func classifyError(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return "HTTP " + strconv.Itoa(statusErr.StatusCode)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Timeout"
	}
	if errors.Is(err, ErrNotConfigured) {
		return "NotConfigured"
	}
	return "ConnectionError"
}
