// go:build integration
//go:build integration

package elis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abershum-Health/elis-sync-service/internal/testutil"
	"github.com/google/uuid"
)

// TestFailedEventRepositoryRecord_Integration tests recording a failed push
func TestFailedEventRepositoryRecord_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	repo := NewFailedEventRepository(db)
	ctx := context.Background()

	subjectUUID := uuid.New().String()
	payload := map[string]string{"patient_id": "P000001"}

	err := repo.Record(ctx, KindTestOrder, subjectUUID, "SO-00001", payload, errors.New("connection refused"))
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	events, total, err := repo.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("Expected 1 event, got %d", total)
	}

	event := events[0]
	if event.Kind != KindTestOrder {
		t.Errorf("Expected kind %s, got %s", KindTestOrder, event.Kind)
	}
	if event.SubjectUUID != subjectUUID {
		t.Errorf("Expected subject %s, got %s", subjectUUID, event.SubjectUUID)
	}
	if event.Reference != "SO-00001" {
		t.Errorf("Expected reference SO-00001, got %s", event.Reference)
	}
	if event.State != StatePending {
		t.Errorf("Expected state pending, got %s", event.State)
	}
	if event.RetryCount != 0 {
		t.Errorf("Expected retry count 0, got %d", event.RetryCount)
	}
	if event.ErrorMessage != "connection refused" {
		t.Errorf("Expected error message to be stored, got %q", event.ErrorMessage)
	}
}

// TestFailedEventRepositoryRecord_Upsert_Integration tests that recording the
// same subject twice keeps its FIFO position and resets the retry budget
func TestFailedEventRepositoryRecord_Upsert_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	repo := NewFailedEventRepository(db)
	ctx := context.Background()

	subjectUUID := uuid.New().String()

	err := repo.Record(ctx, KindPatient, subjectUUID, "P000001", map[string]string{"v": "1"}, errors.New("first failure"))
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	events, _, err := repo.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	originalID := events[0].ID

	// Burn a retry so the reset is observable
	if err := repo.MarkFailed(ctx, originalID, errors.New("retry failed")); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}

	err = repo.Record(ctx, KindPatient, subjectUUID, "P000001", map[string]string{"v": "2"}, errors.New("second failure"))
	if err != nil {
		t.Fatalf("Record upsert failed: %v", err)
	}

	events, total, err := repo.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("Expected upsert to keep a single row, got %d", total)
	}

	event := events[0]
	if event.ID != originalID {
		t.Errorf("Expected FIFO id %d to be kept, got %d", originalID, event.ID)
	}
	if event.RetryCount != 0 {
		t.Errorf("Expected retry count reset to 0, got %d", event.RetryCount)
	}
	if event.State != StatePending {
		t.Errorf("Expected state reset to pending, got %s", event.State)
	}
	if event.NextRetryAt != nil {
		t.Errorf("Expected next_retry_at cleared, got %v", event.NextRetryAt)
	}
	if event.ErrorMessage != "second failure" {
		t.Errorf("Expected latest error message, got %q", event.ErrorMessage)
	}
}

// TestFailedEventRepositoryMarkFailed_Integration tests retry bookkeeping
func TestFailedEventRepositoryMarkFailed_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	repo := NewFailedEventRepository(db)
	ctx := context.Background()

	subjectUUID := uuid.New().String()
	if err := repo.Record(ctx, KindLabTest, subjectUUID, "HGB", map[string]string{}, errors.New("boom")); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	events, _, err := repo.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	id := events[0].ID

	if err := repo.MarkFailed(ctx, id, errors.New("still down")); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}

	event, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if event.RetryCount != 1 {
		t.Errorf("Expected retry count 1, got %d", event.RetryCount)
	}
	if event.State != StateFailed {
		t.Errorf("Expected state failed, got %s", event.State)
	}
	if event.NextRetryAt == nil {
		t.Fatal("Expected next_retry_at to be scheduled")
	}
	if !event.NextRetryAt.After(time.Now()) {
		t.Errorf("Expected next_retry_at in the future, got %v", event.NextRetryAt)
	}
}

// TestFailedEventRepositoryDueForRetry_Integration tests backoff filtering
func TestFailedEventRepositoryDueForRetry_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	repo := NewFailedEventRepository(db)
	ctx := context.Background()

	dueSubject := uuid.New().String()
	backoffSubject := uuid.New().String()

	if err := repo.Record(ctx, KindTestOrder, dueSubject, "SO-00001", map[string]string{}, errors.New("boom")); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := repo.Record(ctx, KindTestOrder, backoffSubject, "SO-00002", map[string]string{}, errors.New("boom")); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// Push the second event into the future
	events, _, err := repo.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if err := repo.MarkFailed(ctx, events[1].ID, errors.New("still down")); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}

	due, err := repo.DueForRetry(ctx, MaxRetryBatch)
	if err != nil {
		t.Fatalf("DueForRetry failed: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("Expected 1 due event, got %d", len(due))
	}
	if due[0].SubjectUUID != dueSubject {
		t.Errorf("Expected due event for subject %s, got %s", dueSubject, due[0].SubjectUUID)
	}
}

// TestFailedEventRepositoryDelete_Integration tests removal after success
func TestFailedEventRepositoryDelete_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	repo := NewFailedEventRepository(db)
	ctx := context.Background()

	subjectUUID := uuid.New().String()
	if err := repo.Record(ctx, KindPatient, subjectUUID, "P000002", map[string]string{}, errors.New("boom")); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	events, _, err := repo.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if err := repo.Delete(ctx, events[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	_, err = repo.Get(ctx, events[0].ID)
	if !errors.Is(err, ErrEventNotFound) {
		t.Errorf("Expected ErrEventNotFound after delete, got %v", err)
	}

	if err := repo.Delete(ctx, events[0].ID); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("Expected ErrEventNotFound on double delete, got %v", err)
	}
}
