package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Specifications holds a product's named attributes (e.g. "battery_life": "30h").
type Specifications map[string]string

type Product struct {
	ID             string           `json:"id"`
	Slug           string           `json:"slug"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Brand          string           `json:"brand"`
	Price          decimal.Decimal  `json:"price"`
	OriginalPrice  *decimal.Decimal `json:"original_price"`
	Images         []string         `json:"images"`
	Specifications Specifications   `json:"specifications"`
	Stock          int              `json:"stock"`
	IsActive       bool             `json:"is_active"`
	IsFeatured     bool             `json:"is_featured"`
	Category       *Category        `json:"category,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Detail is what the product page renders.
type Detail struct {
	Product
	DiscountPercent int      `json:"discount_percent"`
	AverageRating   float64  `json:"average_rating"`
	InStock         bool     `json:"in_stock"`
	Reviews         []Review `json:"reviews"`
}

// Filter narrows ListProducts. Zero value lists every active product.
type Filter struct {
	FeaturedOnly bool
	CategorySlug string
	Search       string
}

// DefaultRating is shown for products nobody has reviewed yet.
const DefaultRating = 4.0

var hundred = decimal.NewFromInt(100)

// Discount returns the whole-number percentage off the original price,
// rounded half away from zero. No original price, or one not above the
// current price, means no discount.
func Discount(price decimal.Decimal, original *decimal.Decimal) int {
	if original == nil || !original.GreaterThan(price) || !original.IsPositive() {
		return 0
	}
	pct := original.Sub(price).Mul(hundred).Div(*original).Round(0)
	return int(pct.IntPart())
}

// AverageRating is the mean review rating, or DefaultRating when there are none.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return DefaultRating
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

// InStock gates the add-to-cart control.
func (p Product) InStock() bool { return p.IsActive && p.Stock > 0 }
