package realtime

import (
	"context"
	"encoding/json"

	kafkax "github.com/ariefcatur/feelitbuy/internal/kafka"
	"github.com/ariefcatur/feelitbuy/internal/orders"
	kafkago "github.com/segmentio/kafka-go"
)

var events = map[string]string{
	orders.ChangeCreated: "INSERT",
	orders.ChangeUpdated: "UPDATE",
}

// HandleOrderChanged is the consumer handler feeding the hub. Undecodable
// messages are logged and skipped so they do not block the partition.
func (h *Hub) HandleOrderChanged(_ context.Context, m kafkago.Message) error {
	if t := kafkax.HeaderValue(m, "x-event-type"); t != "" && t != orders.EventOrderChanged {
		return nil
	}
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		h.log.Warn().Err(err).Int64("offset", m.Offset).Msg("skip undecodable event")
		return nil
	}
	if env.EventType != orders.EventOrderChanged {
		return nil
	}
	p, err := kafkax.UnwrapPayload[orders.OrderChangedPayload](env.Payload)
	if err != nil {
		h.log.Warn().Err(err).Str("event_id", env.EventID).Msg("skip undecodable payload")
		return nil
	}
	ev, ok := events[p.Change]
	if !ok {
		ev = "UPDATE"
	}
	n := h.Publish(Change{Table: "orders", Event: ev, OrderID: p.OrderID, UserID: p.UserID, Status: string(p.Status)})
	h.log.Debug().Str("order_id", p.OrderID).Int("subscribers", n).Msg("order change fanned out")
	return nil
}
