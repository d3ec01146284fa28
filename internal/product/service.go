package product

import (
	"context"
	"log"

	"github.com/Abershum-Health/elis-sync-service/internal/elis"
)

type Service struct {
	repo   RepositoryInterface
	syncer elis.SyncerInterface
}

func NewService(repo RepositoryInterface, syncer elis.SyncerInterface) *Service {
	return &Service{
		repo:   repo,
		syncer: syncer,
	}
}

func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.Name == "" {
		return nil, ErrMissingName
	}
	if req.Category == "" {
		return nil, ErrMissingCategory
	}
	if len(req.ComponentUUIDs) > 0 && req.Category != CategoryLabPanel {
		return nil, ErrComponentsNotPanel
	}

	product := &Product{
		Name:           req.Name,
		Code:           req.Code,
		Description:    req.Description,
		Category:       req.Category,
		ListPrice:      req.ListPrice,
		ComponentUUIDs: req.ComponentUUIDs,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.syncLabTest(ctx, product)

	resp := product.Response()
	return &resp, nil
}

func (s *Service) GetProduct(ctx context.Context, productUUID string) (*ProductResponse, error) {
	product, err := s.repo.GetByUUID(ctx, productUUID)
	if err != nil {
		return nil, err
	}
	resp := product.Response()
	return &resp, nil
}

func (s *Service) ListProducts(ctx context.Context, labOnly bool, limit, offset int) ([]ProductResponse, int, error) {
	products, total, err := s.repo.ListWithPagination(ctx, labOnly, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, products[i].Response())
	}
	return responses, total, nil
}

func (s *Service) UpdateProduct(ctx context.Context, productUUID string, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.repo.GetByUUID(ctx, productUUID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrMissingName
		}
		product.Name = *req.Name
	}
	if req.Code != nil {
		product.Code = *req.Code
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		if *req.Category == "" {
			return nil, ErrMissingCategory
		}
		product.Category = *req.Category
	}
	if req.ListPrice != nil {
		product.ListPrice = *req.ListPrice
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	if req.ComponentUUIDs != nil {
		product.ComponentUUIDs = *req.ComponentUUIDs
	}
	if len(product.ComponentUUIDs) > 0 && !product.IsPanel() {
		return nil, ErrComponentsNotPanel
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.syncLabTest(ctx, product)

	resp := product.Response()
	return &resp, nil
}

// syncLabTest pushes a lab product definition to OpenELIS best-effort.
// Products outside the lab categories never leave the catalog.
func (s *Service) syncLabTest(ctx context.Context, product *Product) {
	if s.syncer == nil || !product.IsSyncEligible() {
		return
	}

	err := s.syncer.SyncLabTest(ctx, elis.LabTestRecord{
		ProductUUID:    product.UUID,
		Name:           product.Name,
		Code:           product.Code,
		Description:    product.Description,
		Category:       product.Category,
		Active:         product.Active,
		ListPrice:      product.ListPrice,
		IsPanel:        product.IsPanel(),
		ComponentUUIDs: product.ComponentUUIDs,
	})
	if err != nil && !elis.IsSkip(err) {
		log.Printf("Product %s saved but OpenELIS sync failed: %v", product.Name, err)
	}
}
