package order

import (
	"context"
	"log"
	"time"

	"github.com/Abershum-Health/elis-sync-service/internal/elis"
	"github.com/Abershum-Health/elis-sync-service/internal/messaging"
	"github.com/Abershum-Health/elis-sync-service/internal/patient"
	"github.com/Abershum-Health/elis-sync-service/internal/product"
	"github.com/Abershum-Health/elis-sync-service/internal/sequence"
	"github.com/Abershum-Health/elis-sync-service/internal/telemetry"
)

type Service struct {
	repo      RepositoryInterface
	patients  patient.RepositoryInterface
	sequences sequence.StoreInterface
	syncer    elis.SyncerInterface
	publisher messaging.PublisherInterface
	metrics   *telemetry.Metrics
}

func NewService(repo RepositoryInterface, patients patient.RepositoryInterface, sequences sequence.StoreInterface, syncer elis.SyncerInterface, publisher messaging.PublisherInterface, metrics *telemetry.Metrics) *Service {
	return &Service{
		repo:      repo,
		patients:  patients,
		sequences: sequences,
		syncer:    syncer,
		publisher: publisher,
		metrics:   metrics,
	}
}

// CreateOrder registers a draft order. The reference is drawn from the order
// reference sequence; lab and non-lab products mix freely on one order.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if req.PatientUUID == "" {
		return nil, ErrMissingPatient
	}
	if len(req.Lines) == 0 {
		return nil, ErrMissingLines
	}

	// The patient must exist before the order references it.
	if _, err := s.patients.GetByUUID(ctx, req.PatientUUID); err != nil {
		return nil, err
	}

	orderDate := time.Now()
	if req.OrderDate != "" {
		parsed, err := time.Parse("2006-01-02", req.OrderDate)
		if err != nil {
			return nil, ErrInvalidOrderDate
		}
		orderDate = parsed
	}

	lines := make([]Line, 0, len(req.Lines))
	for _, l := range req.Lines {
		quantity := l.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if quantity < 0 {
			return nil, ErrInvalidQuantity
		}
		lines = append(lines, Line{
			ProductUUID: l.ProductUUID,
			Quantity:    quantity,
			UnitPrice:   l.UnitPrice,
			Comment:     l.Comment,
		})
	}

	reference, err := s.sequences.NextIdentifier(ctx, sequence.OrderReference)
	if err != nil {
		return nil, err
	}

	order := &Order{
		Reference:   reference,
		PatientUUID: req.PatientUUID,
		OrderDate:   orderDate,
		Lines:       lines,
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderOperation(ctx, "create")
	}

	// Reload so line responses carry product names and categories.
	created, err := s.repo.GetByUUID(ctx, order.UUID)
	if err != nil {
		return nil, err
	}
	resp := created.Response()
	return &resp, nil
}

func (s *Service) GetOrder(ctx context.Context, orderUUID string) (*OrderResponse, error) {
	order, err := s.repo.GetByUUID(ctx, orderUUID)
	if err != nil {
		return nil, err
	}
	resp := order.Response()
	return &resp, nil
}

func (s *Service) ListOrders(ctx context.Context, limit, offset int) ([]OrderResponse, int, error) {
	orders, total, err := s.repo.ListWithPagination(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, orders[i].Response())
	}
	return responses, total, nil
}

// ConfirmOrder moves a draft order to confirmed and pushes its lab-test
// lines to OpenELIS. The push is best-effort: a failed or disabled sync never
// rolls the confirmation back, it only leaves a failed event behind.
func (s *Service) ConfirmOrder(ctx context.Context, orderUUID string) (*OrderResponse, error) {
	order, err := s.repo.GetByUUID(ctx, orderUUID)
	if err != nil {
		return nil, err
	}

	confirmedAt := time.Now()
	if err := s.repo.Confirm(ctx, orderUUID, confirmedAt); err != nil {
		return nil, err
	}
	order.Status = StatusConfirmed
	order.ConfirmedAt = confirmedAt

	if s.metrics != nil {
		s.metrics.RecordOrderOperation(ctx, "confirm")
	}

	labLines := s.labLines(order)
	syncAttempted := false
	if s.syncer != nil && len(labLines) > 0 {
		syncErr := s.syncTestOrder(ctx, order, labLines)
		syncAttempted = !elis.IsSkip(syncErr)
	}

	s.publishConfirmed(ctx, order, len(labLines), syncAttempted)

	resp := order.Response()
	return &resp, nil
}

func (s *Service) CancelOrder(ctx context.Context, orderUUID string) (*OrderResponse, error) {
	if err := s.repo.Cancel(ctx, orderUUID); err != nil {
		return nil, err
	}

	order, err := s.repo.GetByUUID(ctx, orderUUID)
	if err != nil {
		return nil, err
	}
	resp := order.Response()
	return &resp, nil
}

// labLines filters the order down to lines in the lab categories.
func (s *Service) labLines(order *Order) []elis.OrderLineRecord {
	var lines []elis.OrderLineRecord
	for _, l := range order.Lines {
		productType := product.TypeForCategory(l.ProductCategory)
		if productType == "" {
			continue
		}
		lines = append(lines, elis.OrderLineRecord{
			ProductUUID: l.ProductUUID,
			ProductName: l.ProductName,
			ProductType: productType,
			Quantity:    l.Quantity,
			Comment:     l.Comment,
		})
	}
	return lines
}

func (s *Service) syncTestOrder(ctx context.Context, order *Order, labLines []elis.OrderLineRecord) error {
	pat, err := s.patients.GetByUUID(ctx, order.PatientUUID)
	if err != nil {
		log.Printf("Order %s confirmed but patient lookup for sync failed: %v", order.Reference, err)
		return err
	}

	err = s.syncer.SyncTestOrder(ctx, elis.OrderRecord{
		OrderUUID: order.UUID,
		Reference: order.Reference,
		OrderDate: order.OrderDate,
		Patient: elis.PatientRecord{
			Identifier: pat.Identifier,
			UUID:       pat.UUID,
			Name:       pat.Name,
			Phone:      pat.PhoneNumber,
			Email:      pat.Email,
			Birthdate:  pat.Birthdate,
			Gender:     pat.Gender,
		},
		Lines: labLines,
	})
	if err != nil && !elis.IsSkip(err) {
		log.Printf("Order %s confirmed but OpenELIS sync failed: %v", order.Reference, err)
	}
	return err
}

func (s *Service) publishConfirmed(ctx context.Context, order *Order, labLineCount int, syncAttempted bool) {
	if s.publisher == nil {
		return
	}

	event := messaging.OrderConfirmedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventOrderConfirmed),
		Data: messaging.OrderConfirmedData{
			OrderUUID:     order.UUID,
			Reference:     order.Reference,
			PatientUUID:   order.PatientUUID,
			LabTestLines:  labLineCount,
			ConfirmedAt:   order.ConfirmedAt,
			SyncAttempted: syncAttempted,
		},
	}
	if err := s.publisher.Publish(ctx, messaging.EventOrderConfirmed, event); err != nil {
		log.Printf("Warning: failed to publish order.confirmed event: %v", err)
	}
}

func isLabCategory(category string) bool {
	return product.TypeForCategory(category) != ""
}
