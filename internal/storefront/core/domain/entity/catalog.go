package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return Validationf("category name is required")
	}
	return nil
}

// Product is a catalog entry. Prices are fixed-point; a product is never
// physically removed, deletion flips IsActive.
type Product struct {
	ID           int64
	Name         string
	Description  string
	Price        decimal.Decimal
	CategoryID   int64
	CategoryName string
	ImageURL     string
	IsFeatured   bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p Product) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return Validationf("product name is required")
	case p.CategoryID <= 0:
		return Validationf("category_id is required")
	case !p.Price.IsPositive():
		return Validationf("price must be greater than zero")
	}
	return nil
}

// ProductFilter narrows ListProducts. The zero value lists every active product.
type ProductFilter struct {
	CategoryID   int64
	FeaturedOnly bool
}
