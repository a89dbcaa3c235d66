package realtime

import (
	"context"
	"testing"

	kafkax "github.com/ariefcatur/feelitbuy/internal/kafka"
	"github.com/ariefcatur/feelitbuy/internal/orders"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderMessage(change string) kafkago.Message {
	ev := orders.NewOrderChanged("test", "", orders.Order{ID: "o1", UserID: "u1", Status: orders.StatusPending}, change)
	return kafkago.Message{Value: kafkax.MustMarshal(ev), Headers: kafkax.EventHeaders(orders.EventOrderChanged, 1)}
}

func TestHandleOrderChanged(t *testing.T) {
	h := NewHub(4, zerolog.Nop())
	s := h.Subscribe(Filter{Table: "orders", Column: "user_id", Value: "u1"})

	require.NoError(t, h.HandleOrderChanged(context.Background(), orderMessage(orders.ChangeCreated)))
	got := <-s.C
	assert.Equal(t, Change{Table: "orders", Event: "INSERT", OrderID: "o1", UserID: "u1", Status: "pending"}, got)

	require.NoError(t, h.HandleOrderChanged(context.Background(), orderMessage(orders.ChangeUpdated)))
	assert.Equal(t, "UPDATE", (<-s.C).Event)
}

func TestHandleOrderChangedSkipsJunk(t *testing.T) {
	h := NewHub(4, zerolog.Nop())
	s := h.Subscribe(Filter{Table: "orders"})

	assert.NoError(t, h.HandleOrderChanged(context.Background(), kafkago.Message{Value: []byte("{")}))
	assert.NoError(t, h.HandleOrderChanged(context.Background(), kafkago.Message{
		Value:   []byte(`{}`),
		Headers: kafkax.EventHeaders("SomethingElse", 1),
	}))
	assert.Empty(t, s.C)
}
