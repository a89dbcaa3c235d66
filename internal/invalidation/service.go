// Package invalidation drops per-user cache entries when an order changes.
// It runs in a shared consumer group so each event is applied once per
// cluster rather than once per API instance.
package invalidation

import (
	"context"
	"encoding/json"
	"fmt"

	kafkax "github.com/ariefcatur/feelitbuy/internal/kafka"
	"github.com/ariefcatur/feelitbuy/internal/orders"
	"github.com/ariefcatur/feelitbuy/internal/redisx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

type Service struct {
	Redis       redis.Cmdable
	ServiceName string
	Log         zerolog.Logger
}

// HandleOrderChanged is installed as the consumer handler.
func (s *Service) HandleOrderChanged(ctx context.Context, m kafkago.Message) error {
	// 1) decode envelope
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		s.Log.Warn().Err(err).Int64("offset", m.Offset).Msg("skip undecodable event")
		return nil
	}
	if env.EventType != orders.EventOrderChanged {
		return nil
	}

	// 2) dedup by event_id
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	fresh, err := s.Redis.SetNX(ctx, dkey, "1", redisx.TTLDedup).Result()
	if err != nil {
		return fmt.Errorf("dedup %s: %w", env.EventID, err)
	}
	if !fresh {
		return nil
	}

	// 3) decode payload
	p, err := kafkax.UnwrapPayload[orders.OrderChangedPayload](env.Payload)
	if err != nil {
		s.Log.Warn().Err(err).Str("event_id", env.EventID).Msg("skip undecodable payload")
		return nil
	}

	// 4) drop the user's cached counters and order history
	if err := s.Redis.Del(ctx, redisx.UserKeys(p.UserID)...).Err(); err != nil {
		// let a redelivery retry it
		_ = s.Redis.Del(ctx, dkey).Err()
		return fmt.Errorf("invalidate user %s: %w", p.UserID, err)
	}
	s.Log.Debug().Str("order_id", p.OrderID).Str("user_id", p.UserID).Str("change", p.Change).Msg("cache invalidated")
	return nil
}
