package admin

import (
	"context"
	"time"

	"github.com/ariefcatur/feelitbuy/internal/catalog"
	"github.com/ariefcatur/feelitbuy/internal/orders"
	"github.com/ariefcatur/feelitbuy/internal/redisx"
	"github.com/rs/zerolog"
)

type Store interface {
	HasRole(ctx context.Context, userID, role string) (bool, error)
	Stats(ctx context.Context) (Stats, error)
	OrdersSince(ctx context.Context, since time.Time) ([]OrderPoint, error)
	ListOrders(ctx context.Context) ([]OrderRow, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// ProductStore is the admin side of catalog.Repo.
type ProductStore interface {
	ListAll(ctx context.Context) ([]catalog.Product, error)
	ToggleActive(ctx context.Context, id string) (slug string, active bool, err error)
	Delete(ctx context.Context, id string) (slug string, holders []string, err error)
}

// OrderUpdater is satisfied by *orders.Service.
type OrderUpdater interface {
	UpdateStatus(ctx context.Context, orderID, status, tracking string) (orders.Order, error)
}

type Service struct {
	Store   Store
	Catalog ProductStore
	Updater OrderUpdater
	Cache   *redisx.Cache
	Loc     *time.Location
	Now     func() time.Time
	Log     zerolog.Logger
}

func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return s.Store.HasRole(ctx, userID, RoleAdmin)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.Store.Stats(ctx)
}

// SalesTrend buckets the last 30 days of orders by calendar day.
func (s *Service) SalesTrend(ctx context.Context) ([]DayBucket, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	points, err := s.Store.OrdersSince(ctx, now().Add(-TrendWindow))
	if err != nil {
		return nil, err
	}
	return BucketByDay(points, s.Loc), nil
}

func (s *Service) Orders(ctx context.Context) ([]OrderRow, error) {
	return s.Store.ListOrders(ctx)
}

func (s *Service) Users(ctx context.Context) ([]User, error) {
	return s.Store.ListUsers(ctx)
}

func (s *Service) UpdateOrder(ctx context.Context, orderID, status, tracking string) (orders.Order, error) {
	o, err := s.Updater.UpdateStatus(ctx, orderID, status, tracking)
	if err != nil {
		return orders.Order{}, err
	}
	s.Log.Info().Str("order_id", orderID).Str("status", string(o.Status)).Msg("order updated")
	return o, nil
}

func (s *Service) Products(ctx context.Context) ([]catalog.Product, error) {
	return s.Catalog.ListAll(ctx)
}

// ToggleProduct flips is_active and drops the product's cached page.
func (s *Service) ToggleProduct(ctx context.Context, id string) (bool, error) {
	slug, active, err := s.Catalog.ToggleActive(ctx, id)
	if err != nil {
		return false, err
	}
	s.invalidate(ctx, catalog.ProductKeys(slug)...)
	s.Log.Info().Str("product_id", id).Bool("active", active).Msg("product toggled")
	return active, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	slug, holders, err := s.Catalog.Delete(ctx, id)
	if err != nil {
		return err
	}
	keys := catalog.ProductKeys(slug)
	for _, u := range holders {
		keys = append(keys, redisx.UserKeys(u)...)
	}
	s.invalidate(ctx, keys...)
	s.Log.Info().Str("product_id", id).Int("holders", len(holders)).Msg("product deleted")
	return nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, keys...); err != nil {
		s.Log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}
