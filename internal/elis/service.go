package elis

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Abershum-Health/elis-sync-service/internal/messaging"
	"github.com/Abershum-Health/elis-sync-service/internal/settings"
	"github.com/Abershum-Health/elis-sync-service/internal/telemetry"
)

// Event kinds stored with failed events and reported on metrics/events.
const (
	KindTestOrder = "test_order"
	KindPatient   = "patient"
	KindLabTest   = "lab_test"
)

// Service pushes patients, lab tests and confirmed test orders to OpenELIS.
// The sync configuration is re-read from storage on every attempt so admin
// changes apply immediately.
type Service struct {
	client    ClientInterface
	config    settings.ConfigLoader
	failed    FailedEventRepositoryInterface
	publisher messaging.PublisherInterface
	metrics   *telemetry.Metrics
}

func NewService(client ClientInterface, config settings.ConfigLoader, failed FailedEventRepositoryInterface, publisher messaging.PublisherInterface, metrics *telemetry.Metrics) *Service {
	return &Service{
		client:    client,
		config:    config,
		failed:    failed,
		publisher: publisher,
		metrics:   metrics,
	}
}

// SyncTestOrder pushes a confirmed order to OpenELIS. Orders without
// lab-test lines and orders confirmed while sync is disabled are a silent
// no-op (ErrSyncDisabled / ErrNothingToSync, no HTTP call).
func (s *Service) SyncTestOrder(ctx context.Context, order OrderRecord) error {
	if len(order.Lines) == 0 {
		s.recordAttempt(ctx, KindTestOrder, "skipped", 0)
		return ErrNothingToSync
	}

	cfg, err := s.config.LoadSyncConfig(ctx)
	if err != nil {
		return err
	}
	if !cfg.EnableTestOrderSync {
		log.Printf("OpenELIS test order sync is disabled, skipping order %s", order.Reference)
		s.recordAttempt(ctx, KindTestOrder, "skipped", 0)
		return ErrSyncDisabled
	}

	payload := BuildTestOrderPayload(order)

	start := time.Now()
	err = s.client.Post(ctx, cfg, EndpointTestOrder, payload)
	elapsed := float64(time.Since(start).Milliseconds())

	if err != nil {
		log.Printf("Failed to sync test order %s to OpenELIS: %v", order.Reference, err)
		s.recordAttempt(ctx, KindTestOrder, "failure", elapsed)
		s.recordFailure(ctx, KindTestOrder, order.OrderUUID, order.Reference, payload, err)
		return err
	}

	log.Printf("Successfully synced test order %s to OpenELIS", order.Reference)
	s.recordAttempt(ctx, KindTestOrder, "success", elapsed)
	s.publishResult(ctx, messaging.EventSyncSucceeded, KindTestOrder, order.OrderUUID, order.Reference, nil)
	return nil
}

// SyncPatient pushes a patient to OpenELIS when patient sync is enabled.
func (s *Service) SyncPatient(ctx context.Context, patient PatientRecord) error {
	cfg, err := s.config.LoadSyncConfig(ctx)
	if err != nil {
		return err
	}
	if !cfg.EnablePatientSync {
		log.Printf("OpenELIS patient sync is disabled, skipping patient %s", patient.Identifier)
		s.recordAttempt(ctx, KindPatient, "skipped", 0)
		return ErrSyncDisabled
	}

	payload := BuildPatientPayload(patient)

	start := time.Now()
	err = s.client.Post(ctx, cfg, EndpointPatient, payload)
	elapsed := float64(time.Since(start).Milliseconds())

	if err != nil {
		log.Printf("Failed to sync patient %s to OpenELIS: %v", patient.Identifier, err)
		s.recordAttempt(ctx, KindPatient, "failure", elapsed)
		s.recordFailure(ctx, KindPatient, patient.UUID, patient.Identifier, payload, err)
		return err
	}

	log.Printf("Successfully synced patient %s (%s) to OpenELIS", patient.Identifier, patient.Name)
	s.recordAttempt(ctx, KindPatient, "success", elapsed)
	s.publishResult(ctx, messaging.EventSyncSucceeded, KindPatient, patient.UUID, patient.Identifier, nil)
	return nil
}

// SyncLabTest pushes a lab-test or panel product definition to OpenELIS when
// lab-test sync is enabled.
func (s *Service) SyncLabTest(ctx context.Context, test LabTestRecord) error {
	cfg, err := s.config.LoadSyncConfig(ctx)
	if err != nil {
		return err
	}
	if !cfg.EnableLabTestSync {
		log.Printf("OpenELIS lab test sync is disabled, skipping product %s", test.Name)
		s.recordAttempt(ctx, KindLabTest, "skipped", 0)
		return ErrSyncDisabled
	}

	payload := BuildLabTestPayload(test)

	start := time.Now()
	err = s.client.Post(ctx, cfg, EndpointLabTest, payload)
	elapsed := float64(time.Since(start).Milliseconds())

	if err != nil {
		log.Printf("Failed to sync lab test %s to OpenELIS: %v", test.Name, err)
		s.recordAttempt(ctx, KindLabTest, "failure", elapsed)
		s.recordFailure(ctx, KindLabTest, test.ProductUUID, test.Code, payload, err)
		return err
	}

	log.Printf("Successfully synced lab test %s to OpenELIS", test.Name)
	s.recordAttempt(ctx, KindLabTest, "success", elapsed)
	s.publishResult(ctx, messaging.EventSyncSucceeded, KindLabTest, test.ProductUUID, test.Code, nil)
	return nil
}

func (s *Service) recordAttempt(ctx context.Context, kind, outcome string, durationMs float64) {
	if s.metrics != nil {
		s.metrics.RecordSyncAttempt(ctx, kind, outcome, durationMs)
	}
}

func (s *Service) recordFailure(ctx context.Context, kind, subjectUUID, reference string, payload interface{}, syncErr error) {
	if s.failed != nil {
		if err := s.failed.Record(ctx, kind, subjectUUID, reference, payload, syncErr); err != nil {
			log.Printf("Failed to store failed %s event for %s: %v", kind, reference, err)
		}
	}
	s.publishResult(ctx, messaging.EventSyncFailed, kind, subjectUUID, reference, syncErr)
}

func (s *Service) publishResult(ctx context.Context, routingKey, kind, subjectUUID, reference string, syncErr error) {
	if s.publisher == nil {
		return
	}
	errMsg := ""
	if syncErr != nil {
		errMsg = syncErr.Error()
	}
	event := messaging.SyncResultEvent{
		BaseEvent: messaging.NewBaseEvent(routingKey),
		Data: messaging.SyncResultData{
			Kind:        kind,
			SubjectUUID: subjectUUID,
			Reference:   reference,
			Error:       errMsg,
			AttemptedAt: time.Now().UTC(),
		},
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		log.Printf("Failed to publish %s event: %v", routingKey, err)
	}
}

// IsSkip reports whether a sync error only means the attempt was skipped
// (disabled or nothing eligible) rather than failed.
func IsSkip(err error) bool {
	return errors.Is(err, ErrSyncDisabled) || errors.Is(err, ErrNothingToSync)
}
