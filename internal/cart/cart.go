// Package cart holds per-user cart rows and the add-to-cart reconciliation.
package cart

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("cart item not found")
	ErrNoSuchProduct = errors.New("product not available")
	ErrOutOfStock    = errors.New("product is out of stock")
	ErrStockLimit    = errors.New("quantity would exceed available stock")
	ErrBadQuantity   = errors.New("quantity must be at least 1")
)

// Item is a bare cart row.
type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// LineProduct is the product data a cart line is rendered with.
type LineProduct struct {
	ID     string          `json:"id"`
	Slug   string          `json:"slug"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Images []string        `json:"images"`
	Stock  int             `json:"stock"`
}

// Line is a cart row joined to its product.
type Line struct {
	ID       string      `json:"id"`
	Quantity int         `json:"quantity"`
	Product  LineProduct `json:"product"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CanIncrement mirrors the "+" control: disabled once quantity reaches stock.
func (l Line) CanIncrement() bool { return l.Quantity < l.Product.Stock }

// CanDecrement mirrors the "−" control: never below one.
func (l Line) CanDecrement() bool { return l.Quantity > 1 }

// MarshalJSON adds the line subtotal and the state of the +/− controls.
func (l Line) MarshalJSON() ([]byte, error) {
	type plain Line
	return json.Marshal(struct {
		plain
		Subtotal     decimal.Decimal `json:"subtotal"`
		CanIncrement bool            `json:"can_increment"`
		CanDecrement bool            `json:"can_decrement"`
	}{plain(l), l.Subtotal(), l.CanIncrement(), l.CanDecrement()})
}

// Summary is the cart page payload.
type Summary struct {
	Lines    []Line          `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Count    int             `json:"count"`
}

func Summarize(lines []Line) Summary {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	if lines == nil {
		lines = []Line{}
	}
	return Summary{Lines: lines, Subtotal: sum, Count: len(lines)}
}
