package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotTotals(t *testing.T) {
	items, total := Snapshot([]CartLine{
		{CartItemID: "c1", ProductID: "pa", ProductName: "Earbuds", Price: decimal.RequireFromString("500"), Quantity: 2},
		{CartItemID: "c2", ProductID: "pb", ProductName: "Watch", Price: decimal.RequireFromString("1200"), Quantity: 1},
	})
	require.Len(t, items, 2)
	assert.Equal(t, "1000.00", items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "1200.00", items[1].Subtotal.StringFixed(2))
	assert.Equal(t, "2200.00", total.StringFixed(2))
	assert.Equal(t, "Earbuds", items[0].ProductName)
	assert.Equal(t, "pa", *items[0].ProductID)
}

func TestSnapshotToTheCent(t *testing.T) {
	_, total := Snapshot([]CartLine{
		{Price: decimal.RequireFromString("0.10"), Quantity: 3},
		{Price: decimal.RequireFromString("19.99"), Quantity: 7},
	})
	assert.Equal(t, "140.23", total.StringFixed(2))
}

func TestSnapshotEmpty(t *testing.T) {
	items, total := Snapshot(nil)
	assert.Empty(t, items)
	assert.True(t, total.IsZero())
}
