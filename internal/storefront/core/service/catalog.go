// Package service holds the storefront use cases. Services depend only on
// ports, so stores and providers are injected at construction time.
package service

import (
	"context"
	"strings"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
)

type CatalogService struct {
	repo ports.CatalogRepository
}

func NewCatalogService(repo ports.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*entity.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *entity.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repo.CreateCategory(ctx, c)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, c *entity.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateCategory(ctx, c)
}

// DeleteCategory fails with a conflict while products still reference it.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return s.repo.ListProducts(ctx, entity.ProductFilter{})
}

func (s *CatalogService) FeaturedProducts(ctx context.Context) ([]entity.Product, error) {
	return s.repo.ListProducts(ctx, entity.ProductFilter{FeaturedOnly: true})
}

func (s *CatalogService) ProductsByCategory(ctx context.Context, categoryID int64) ([]entity.Product, error) {
	if categoryID <= 0 {
		return nil, entity.Validationf("invalid category id %d", categoryID)
	}
	return s.repo.ListProducts(ctx, entity.ProductFilter{CategoryID: categoryID})
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *entity.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return err
	}
	return s.repo.CreateProduct(ctx, p)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, p *entity.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateProduct(ctx, p)
}

// DeleteProduct is a soft delete; past orders keep pointing at the row.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.DeactivateProduct(ctx, id)
}
