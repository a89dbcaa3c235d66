package cart

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(price string, qty, stock int) Line {
	return Line{Quantity: qty, Product: LineProduct{Price: decimal.RequireFromString(price), Stock: stock}}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Line{line("500", 2, 10), line("1200", 1, 3)})
	assert.True(t, decimal.NewFromInt(2200).Equal(s.Subtotal), s.Subtotal.String())
	assert.Equal(t, 2, s.Count)

	empty := Summarize(nil)
	assert.NotNil(t, empty.Lines)
	assert.True(t, empty.Subtotal.IsZero())
}

func TestSubtotalToTheCent(t *testing.T) {
	l := line("19.99", 3, 5)
	assert.Equal(t, "59.97", l.Subtotal().StringFixed(2))
}

func TestControls(t *testing.T) {
	assert.False(t, line("1", 1, 3).CanDecrement())
	assert.True(t, line("1", 2, 3).CanDecrement())
	assert.True(t, line("1", 2, 3).CanIncrement())
	assert.False(t, line("1", 3, 3).CanIncrement())
}

func TestLineJSONCarriesControls(t *testing.T) {
	l := line("500", 3, 3)
	l.ID = "ci-1"
	b, err := json.Marshal(l)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "ci-1", got["id"])
	assert.EqualValues(t, 3, got["quantity"])
	assert.Equal(t, "1500", got["subtotal"])
	assert.Equal(t, false, got["can_increment"])
	assert.Equal(t, true, got["can_decrement"])
	assert.Contains(t, got, "product")
}
