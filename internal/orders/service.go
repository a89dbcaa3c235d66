package orders

import (
	"context"
	"fmt"
	"time"

	kafkax "github.com/ariefcatur/feelitbuy/internal/kafka"
	"github.com/ariefcatur/feelitbuy/internal/redisx"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

type Store interface {
	PlaceOrderTx(ctx context.Context, userID string, addr ShippingAddress, notes string) (Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	Get(ctx context.Context, userID, orderID string) (Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status, tracking string) (Order, error)
}

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Service struct {
	Store       Store
	Cache       *redisx.Cache
	Events      Publisher
	ServiceName string
	Log         zerolog.Logger
}

// checkoutRun logs each state a checkout attempt passes through.
type checkoutRun struct {
	state CheckoutState
	log   zerolog.Logger
}

func (c *checkoutRun) to(s CheckoutState) {
	c.log.Debug().Str("from", string(c.state)).Str("to", string(s)).Msg("checkout")
	c.state = s
}

// Checkout validates the shipping form and places the order. A validation
// failure returns *ValidationError and writes nothing.
func (s *Service) Checkout(ctx context.Context, userID string, in CheckoutInput) (Order, error) {
	run := &checkoutRun{state: StateIdle, log: s.Log.With().Str("user_id", userID).Logger()}

	run.to(StateValidating)
	if err := in.Validate(); err != nil {
		run.to(StateFailed)
		return Order{}, err
	}

	run.to(StateSubmitting)
	o, err := s.Store.PlaceOrderTx(ctx, userID, in.ShippingAddress(), in.Notes)
	if err != nil {
		run.to(StateFailed)
		return Order{}, err
	}

	run.to(StateDone)
	s.invalidate(ctx, userID)
	s.publish(ctx, o, ChangeCreated)
	s.Log.Info().Str("order_id", o.ID).Str("total", o.TotalAmount.StringFixed(2)).Int("items", len(o.Items)).Msg("order placed")
	return o, nil
}

// MyOrders returns the caller's order history, newest first.
func (s *Service) MyOrders(ctx context.Context, userID string) ([]Order, error) {
	return redisx.Remember(ctx, s.Cache, fmt.Sprintf(redisx.KeyUserOrders, userID), redisx.TTLUserOrders,
		func(ctx context.Context) ([]Order, error) { return s.Store.ListByUser(ctx, userID) })
}

func (s *Service) Get(ctx context.Context, userID, orderID string) (Order, error) {
	return s.Store.Get(ctx, userID, orderID)
}

// UpdateStatus is the admin write: status must be one of Statuses, an empty
// tracking number is stored as NULL.
func (s *Service) UpdateStatus(ctx context.Context, orderID, status, tracking string) (Order, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return Order{}, err
	}
	o, err := s.Store.UpdateStatus(ctx, orderID, st, tracking)
	if err != nil {
		return Order{}, err
	}
	s.invalidate(ctx, o.UserID)
	s.publish(ctx, o, ChangeUpdated)
	return o, nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, redisx.UserKeys(userID)...); err != nil {
		s.Log.Warn().Err(err).Str("user_id", userID).Msg("cache invalidation failed")
	}
}

func (s *Service) publish(ctx context.Context, o Order, change string) {
	if s.Events == nil {
		return
	}
	ev := NewOrderChanged(s.ServiceName, middleware.GetReqID(ctx), o, change)
	s.Events.Publish(PartitionKey(o.ID), kafkax.MustMarshal(ev), kafkax.EventHeaders(EventOrderChanged, 1)...)
}

// NewOrderChanged wraps an order change in the v1 envelope.
func NewOrderChanged(producer, traceID string, o Order, change string) Envelope {
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(OrderChangedPayload{
			OrderID: o.ID,
			UserID:  o.UserID,
			Change:  change,
			Status:  o.Status,
		}),
	}
}
