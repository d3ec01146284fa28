package elis

import (
	"context"
	"fmt"
	"log"

	"github.com/Abershum-Health/elis-sync-service/internal/settings"
	"github.com/Abershum-Health/elis-sync-service/internal/telemetry"
)

// MaxRetryBatch caps how many events one retry run processes.
const MaxRetryBatch = 50

// RetryService re-sends stored failed events to OpenELIS. Events are
// processed serially in FIFO order; a successful retry deletes the event,
// an unsuccessful one pushes its next attempt out by linear backoff.
type RetryService struct {
	repo    FailedEventRepositoryInterface
	client  ClientInterface
	config  settings.ConfigLoader
	metrics *telemetry.Metrics
}

func NewRetryService(repo FailedEventRepositoryInterface, client ClientInterface, config settings.ConfigLoader, metrics *telemetry.Metrics) *RetryService {
	return &RetryService{
		repo:    repo,
		client:  client,
		config:  config,
		metrics: metrics,
	}
}

// RetryEvent re-sends a single event using its stored payload.
func (s *RetryService) RetryEvent(ctx context.Context, event *FailedEvent) error {
	cfg, err := s.config.LoadSyncConfig(ctx)
	if err != nil {
		return err
	}
	if !syncEnabledFor(cfg, event.Kind) {
		// Disabled sync leaves the event untouched; retrying would only
		// burn the retry count while nothing can succeed.
		log.Printf("Sync for %s events is disabled, leaving event #%d in place", event.Kind, event.ID)
		return ErrSyncDisabled
	}

	log.Printf("Retrying failed event #%d (%s %s, attempt %d)",
		event.ID, event.Kind, event.Reference, event.RetryCount+1)

	err = s.client.Post(ctx, cfg, event.Endpoint(), event.Payload)
	if s.metrics != nil {
		s.metrics.RecordFailedEventRetry(ctx, event.Kind, err == nil)
	}

	if err != nil {
		log.Printf("Retry of event #%d failed: %v", event.ID, err)
		if markErr := s.repo.MarkFailed(ctx, event.ID, err); markErr != nil {
			log.Printf("Failed to update event #%d after retry: %v", event.ID, markErr)
		}
		return err
	}

	log.Printf("Retry of event #%d succeeded, removing it", event.ID)
	if delErr := s.repo.Delete(ctx, event.ID); delErr != nil {
		return fmt.Errorf("retry succeeded but event #%d could not be removed: %w", event.ID, delErr)
	}
	return nil
}

// RetryByID retries one event by id, for the admin endpoint.
func (s *RetryService) RetryByID(ctx context.Context, id int64) error {
	event, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.RetryEvent(ctx, event)
}

// RetryDue processes all events whose backoff has elapsed, FIFO, capped at
// MaxRetryBatch. Returns how many retries succeeded and how many were
// attempted.
func (s *RetryService) RetryDue(ctx context.Context) (succeeded, attempted int, err error) {
	events, err := s.repo.DueForRetry(ctx, MaxRetryBatch)
	if err != nil {
		return 0, 0, err
	}
	if len(events) == 0 {
		log.Println("No failed events due for retry")
		return 0, 0, nil
	}

	log.Printf("Found %d failed events to retry (FIFO order)", len(events))

	for i := range events {
		event := &events[i]
		retryErr := s.RetryEvent(ctx, event)
		if retryErr == ErrSyncDisabled {
			continue
		}
		attempted++
		if retryErr == nil {
			succeeded++
		}
	}

	log.Printf("Retry run completed: %d succeeded, %d failed", succeeded, attempted-succeeded)
	return succeeded, attempted, nil
}

func syncEnabledFor(cfg settings.SyncConfig, kind string) bool {
	switch kind {
	case KindPatient:
		return cfg.EnablePatientSync
	case KindLabTest:
		return cfg.EnableLabTestSync
	default:
		return cfg.EnableTestOrderSync
	}
}
