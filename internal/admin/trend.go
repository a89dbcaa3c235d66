package admin

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TrendWindow is how far back the sales trend looks.
const TrendWindow = 30 * 24 * time.Hour

// OrderPoint is the slice of an order the trend needs.
type OrderPoint struct {
	CreatedAt time.Time
	Amount    decimal.Decimal
}

type DayBucket struct {
	Date   string          `json:"date"` // YYYY-MM-DD in the trend location
	Total  decimal.Decimal `json:"total"`
	Orders int             `json:"orders"`
}

// BucketByDay groups orders by calendar day in loc and returns the buckets
// in ascending date order. Days without orders are omitted.
func BucketByDay(points []OrderPoint, loc *time.Location) []DayBucket {
	if loc == nil {
		loc = time.UTC
	}
	byDay := map[string]*DayBucket{}
	for _, p := range points {
		key := p.CreatedAt.In(loc).Format(time.DateOnly)
		b, ok := byDay[key]
		if !ok {
			b = &DayBucket{Date: key, Total: decimal.Zero}
			byDay[key] = b
		}
		b.Total = b.Total.Add(p.Amount)
		b.Orders++
	}
	out := make([]DayBucket, 0, len(byDay))
	for _, b := range byDay {
		out = append(out, *b)
	}
	// DateOnly strings sort chronologically
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
