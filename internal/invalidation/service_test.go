package invalidation

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	kafkax "github.com/ariefcatur/feelitbuy/internal/kafka"
	"github.com/ariefcatur/feelitbuy/internal/orders"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleOrderChangedDropsUserKeysOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	svc := &Service{
		Redis:       redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		ServiceName: "cache-invalidator",
		Log:         zerolog.Nop(),
	}
	ctx := context.Background()

	ev := orders.NewOrderChanged("storefront-api", "", orders.Order{ID: "o1", UserID: "u1", Status: orders.StatusShipped}, orders.ChangeUpdated)
	msg := kafkago.Message{Value: kafkax.MustMarshal(ev)}

	mr.Set("orders:user:u1", "[]")
	mr.Set("cart:count:u1", "3")
	mr.Set("orders:user:u2", "[]")
	require.NoError(t, svc.HandleOrderChanged(ctx, msg))
	assert.False(t, mr.Exists("orders:user:u1"))
	assert.False(t, mr.Exists("cart:count:u1"))
	assert.True(t, mr.Exists("orders:user:u2"))
	assert.True(t, mr.Exists("dedup:cache-invalidator:"+ev.EventID))

	// a redelivered event is a no-op
	mr.Set("orders:user:u1", "[]")
	require.NoError(t, svc.HandleOrderChanged(ctx, msg))
	assert.True(t, mr.Exists("orders:user:u1"))
}

func TestHandleOrderChangedIgnoresOtherEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	svc := &Service{Redis: redis.NewClient(&redis.Options{Addr: mr.Addr()}), ServiceName: "x", Log: zerolog.Nop()}

	assert.NoError(t, svc.HandleOrderChanged(context.Background(), kafkago.Message{Value: []byte(`{"event_type":"Other"}`)}))
	assert.NoError(t, svc.HandleOrderChanged(context.Background(), kafkago.Message{Value: []byte(`nope`)}))
	assert.Empty(t, mr.Keys())
}

func TestHandleOrderChangedRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	svc := &Service{Redis: redis.NewClient(&redis.Options{Addr: mr.Addr()}), ServiceName: "x", Log: zerolog.Nop()}
	mr.Close()

	ev := orders.NewOrderChanged("api", "", orders.Order{ID: "o1", UserID: "u1"}, orders.ChangeCreated)
	err := svc.HandleOrderChanged(context.Background(), kafkago.Message{Value: kafkax.MustMarshal(ev)})
	assert.ErrorContains(t, err, "dedup")
}
