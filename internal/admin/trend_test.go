package admin

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(ts string, amount string) OrderPoint {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return OrderPoint{CreatedAt: t, Amount: decimal.RequireFromString(amount)}
}

func TestBucketByDaySortsAscending(t *testing.T) {
	got := BucketByDay([]OrderPoint{
		pt("2026-03-03T10:00:00Z", "100"),
		pt("2026-03-01T09:00:00Z", "250.50"),
		pt("2026-03-03T23:59:59Z", "400"),
		pt("2026-03-02T00:00:00Z", "75"),
	}, time.UTC)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"2026-03-01", "2026-03-02", "2026-03-03"}, []string{got[0].Date, got[1].Date, got[2].Date})
	assert.Equal(t, "500.00", got[2].Total.StringFixed(2))
	assert.Equal(t, 2, got[2].Orders)
	assert.Equal(t, "250.50", got[0].Total.StringFixed(2))
}

func TestBucketByDayUsesLocation(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	points := []OrderPoint{pt("2026-03-01T20:00:00Z", "10"), pt("2026-03-02T01:00:00Z", "20")}

	utc := BucketByDay(points, nil)
	require.Len(t, utc, 2)

	local := BucketByDay(points, ist)
	require.Len(t, local, 1)
	assert.Equal(t, "2026-03-02", local[0].Date)
	assert.Equal(t, 2, local[0].Orders)
}

func TestBucketByDayEmpty(t *testing.T) {
	got := BucketByDay(nil, time.UTC)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
