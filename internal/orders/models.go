package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingAddress is stored as the orders.shipping_address JSONB document.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          Status          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	TrackingNumber  *string         `json:"tracking_number"`
	Notes           *string         `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Items           []OrderItem     `json:"items"`
}

// OrderItem is the product snapshot taken at checkout. Later product edits
// never reach it.
type OrderItem struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"order_id"`
	ProductID    *string         `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// CartLine is one locked cart row as seen by checkout.
type CartLine struct {
	CartItemID  string
	ProductID   string
	ProductName string
	Price       decimal.Decimal
	Quantity    int
	Stock       int
	Active      bool
}

// Snapshot freezes cart lines into order items, in cart order, and sums
// their subtotals.
func Snapshot(lines []CartLine) ([]OrderItem, decimal.Decimal) {
	items := make([]OrderItem, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		pid := l.ProductID
		sub := l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		items = append(items, OrderItem{
			ProductID:    &pid,
			ProductName:  l.ProductName,
			ProductPrice: l.Price,
			Quantity:     l.Quantity,
			Subtotal:     sub,
		})
		total = total.Add(sub)
	}
	return items, total
}
