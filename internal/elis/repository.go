package elis

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// FailedEventRepository stores failed sync attempts in Postgres. Rows are
// retried in FIFO order (smallest id first).
type FailedEventRepository struct {
	db *sql.DB
}

func NewFailedEventRepository(db *sql.DB) *FailedEventRepository {
	return &FailedEventRepository{db: db}
}

// Record inserts a failed event, or refreshes the existing live row for the
// same subject: the payload and error are replaced, the retry count resets,
// and the original FIFO position is kept.
func (r *FailedEventRepository) Record(ctx context.Context, kind, subjectUUID, reference string, payload interface{}, syncErr error) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal failed-event payload: %w", err)
	}

	query := `
		INSERT INTO elis_failed_events
		(kind, subject_uuid, reference, payload, error_message, error_type, retry_count, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 'pending', $7)
		ON CONFLICT (kind, subject_uuid) DO UPDATE SET
			reference = EXCLUDED.reference,
			payload = EXCLUDED.payload,
			error_message = EXCLUDED.error_message,
			error_type = EXCLUDED.error_type,
			retry_count = 0,
			state = 'pending',
			next_retry_at = NULL,
			updated_at = $7
	`

	_, err = r.db.ExecContext(ctx, query,
		kind, subjectUUID, reference, body,
		syncErr.Error(), classifyError(syncErr), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record failed event: %w", err)
	}
	return nil
}

func (r *FailedEventRepository) Get(ctx context.Context, id int64) (*FailedEvent, error) {
	query := `
		SELECT id, kind, subject_uuid, reference, payload, error_message, error_type,
		       retry_count, state, next_retry_at, created_at, updated_at
		FROM elis_failed_events
		WHERE id = $1
	`

	event, err := scanFailedEvent(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query failed event: %w", err)
	}
	return event, nil
}

// List returns failed events in FIFO order plus the total count.
func (r *FailedEventRepository) List(ctx context.Context, limit, offset int) ([]FailedEvent, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM elis_failed_events`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count failed events: %w", err)
	}

	query := `
		SELECT id, kind, subject_uuid, reference, payload, error_message, error_type,
		       retry_count, state, next_retry_at, created_at, updated_at
		FROM elis_failed_events
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query failed events: %w", err)
	}
	defer rows.Close()

	var events []FailedEvent
	for rows.Next() {
		event, err := scanFailedEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan failed event: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating failed events: %w", err)
	}

	return events, total, nil
}

// DueForRetry returns events whose backoff has elapsed, oldest first.
func (r *FailedEventRepository) DueForRetry(ctx context.Context, limit int) ([]FailedEvent, error) {
	query := `
		SELECT id, kind, subject_uuid, reference, payload, error_message, error_type,
		       retry_count, state, next_retry_at, created_at, updated_at
		FROM elis_failed_events
		WHERE state IN ('pending', 'failed')
		  AND (next_retry_at IS NULL OR next_retry_at <= $1)
		ORDER BY id ASC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, time.Now(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due events: %w", err)
	}
	defer rows.Close()

	var events []FailedEvent
	for rows.Next() {
		event, err := scanFailedEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due event: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due events: %w", err)
	}

	return events, nil
}

// MarkFailed records one more unsuccessful retry and schedules the next one
// with linear backoff (retry count times 15 minutes).
func (r *FailedEventRepository) MarkFailed(ctx context.Context, id int64, syncErr error) error {
	query := `
		UPDATE elis_failed_events
		SET state = 'failed',
		    retry_count = retry_count + 1,
		    error_message = $2,
		    error_type = $3,
		    next_retry_at = $4 + (retry_count + 1) * interval '15 minutes',
		    updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, syncErr.Error(), classifyError(syncErr), time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark event failed: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// Delete removes a failed event, typically after a successful retry.
func (r *FailedEventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM elis_failed_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete failed event: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFailedEvent(row rowScanner) (*FailedEvent, error) {
	var event FailedEvent
	var payload []byte
	var nextRetryAt sql.NullTime
	var updatedAt sql.NullTime

	err := row.Scan(
		&event.ID,
		&event.Kind,
		&event.SubjectUUID,
		&event.Reference,
		&payload,
		&event.ErrorMessage,
		&event.ErrorType,
		&event.RetryCount,
		&event.State,
		&nextRetryAt,
		&event.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.Payload = json.RawMessage(payload)
	if nextRetryAt.Valid {
		event.NextRetryAt = &nextRetryAt.Time
	}
	if updatedAt.Valid {
		event.UpdatedAt = &updatedAt.Time
	}
	return &event, nil
}
