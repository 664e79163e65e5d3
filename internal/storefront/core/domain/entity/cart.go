package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one (session, product) line joined with live product data.
// The price is the product's current price, not a snapshot.
type CartItem struct {
	SessionID   string
	ProductID   int64
	Quantity    int
	Name        string
	Description string
	Price       decimal.Decimal
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartTotal sums quantity × price; an empty slice yields zero.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// CartCount sums quantities.
func CartCount(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
