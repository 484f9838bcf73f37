package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
	"github.com/Cheertaboi/farmfresh-storefront/internal/repository"
)

// CatalogService lists products for shoppers and backs the admin product
// table.
type CatalogService struct {
	products repository.ProductStore
	log      *zap.Logger
}

func NewCatalogService(products repository.ProductStore, log *zap.Logger) *CatalogService {
	return &CatalogService{products: products, log: log}
}

func (s *CatalogService) List(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, models.ErrInvalidProduct
	}
	return s.products.ListProducts(ctx, f)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*models.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (s *CatalogService) Create(ctx context.Context, p *models.Product) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	id, err := s.products.CreateProduct(ctx, p)
	if err != nil {
		return 0, err
	}
	s.log.Info("product created", zap.Int64("product_id", id), zap.String("name", p.Name))
	return id, nil
}

func (s *CatalogService) Update(ctx context.Context, p *models.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.products.UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.log.Info("product updated", zap.Int64("product_id", p.ID))
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	s.log.Info("product deleted", zap.Int64("product_id", id))
	return nil
}
