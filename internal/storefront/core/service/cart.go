package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/sabor-storefront/internal/storefront/core/ports"
)

type CartService struct {
	carts   ports.CartRepository
	catalog ports.CatalogRepository
}

func NewCartService(carts ports.CartRepository, catalog ports.CatalogRepository) *CartService {
	return &CartService{carts: carts, catalog: catalog}
}

type CartSummary struct {
	Items []entity.CartItem
	Total decimal.Decimal
	Count int
}

// AddItem merges qty into the session's line for the product.
func (s *CartService) AddItem(ctx context.Context, sessionID string, productID int64, qty int) error {
	if sessionID == "" {
		return entity.Validationf("session id is required")
	}
	if qty <= 0 {
		return entity.Validationf("quantity must be greater than zero")
	}
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return err
	}
	return s.carts.AddItem(ctx, sessionID, productID, qty)
}

// UpdateQuantity sets the line quantity; zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, productID int64, qty int) error {
	if sessionID == "" {
		return entity.Validationf("session id is required")
	}
	return s.carts.SetQuantity(ctx, sessionID, productID, qty)
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID int64) error {
	return s.carts.RemoveItem(ctx, sessionID, productID)
}

func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	return s.carts.Clear(ctx, sessionID)
}

func (s *CartService) Items(ctx context.Context, sessionID string) ([]entity.CartItem, error) {
	return s.carts.Items(ctx, sessionID)
}

func (s *CartService) Summary(ctx context.Context, sessionID string) (*CartSummary, error) {
	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &CartSummary{Items: items, Total: entity.CartTotal(items), Count: entity.CartCount(items)}, nil
}

// Total is zero for an empty or unknown session.
func (s *CartService) Total(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return decimal.Zero, err
	}
	return entity.CartTotal(items), nil
}
