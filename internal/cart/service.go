package cart

import (
	"context"
	"fmt"

	"github.com/ariefcatur/feelitbuy/internal/redisx"
	"github.com/rs/zerolog"
)

type Store interface {
	AddOne(ctx context.Context, userID, productID string) (Item, error)
	Step(ctx context.Context, userID, itemID string, delta int) (int, error)
	SetQuantity(ctx context.Context, userID, itemID string, q int) error
	Remove(ctx context.Context, userID, itemID string) error
	List(ctx context.Context, userID string) ([]Line, error)
	Count(ctx context.Context, userID string) (int, error)
}

// Service fronts Store with the cached navbar counter. Every mutation
// drops the user's counter.
type Service struct {
	Store Store
	Cache *redisx.Cache
	Log   zerolog.Logger
}

func (s *Service) Add(ctx context.Context, userID, productID string) (Item, error) {
	it, err := s.Store.AddOne(ctx, userID, productID)
	if err != nil {
		return Item{}, err
	}
	s.invalidate(ctx, userID)
	return it, nil
}

func (s *Service) Increment(ctx context.Context, userID, itemID string) (int, error) {
	return s.step(ctx, userID, itemID, 1)
}

func (s *Service) Decrement(ctx context.Context, userID, itemID string) (int, error) {
	return s.step(ctx, userID, itemID, -1)
}

func (s *Service) step(ctx context.Context, userID, itemID string, delta int) (int, error) {
	q, err := s.Store.Step(ctx, userID, itemID, delta)
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, userID)
	return q, nil
}

func (s *Service) SetQuantity(ctx context.Context, userID, itemID string, q int) error {
	if q < 1 {
		return ErrBadQuantity
	}
	if err := s.Store.SetQuantity(ctx, userID, itemID, q); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) Remove(ctx context.Context, userID, itemID string) error {
	if err := s.Store.Remove(ctx, userID, itemID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	lines, err := s.Store.List(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(lines), nil
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return redisx.Remember(ctx, s.Cache, fmt.Sprintf(redisx.KeyCartCount, userID), redisx.TTLCounter,
		func(ctx context.Context) (int, error) { return s.Store.Count(ctx, userID) })
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, fmt.Sprintf(redisx.KeyCartCount, userID)); err != nil {
		s.Log.Warn().Err(err).Str("user_id", userID).Msg("cart count invalidation failed")
	}
}
