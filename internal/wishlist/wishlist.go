// Package wishlist stores the products a user has saved for later.
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/feelitbuy/internal/redisx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var ErrNoSuchProduct = errors.New("product not available")

type Product struct {
	ID     string          `json:"id"`
	Slug   string          `json:"slug"`
	Name   string          `json:"name"`
	Brand  string          `json:"brand"`
	Price  decimal.Decimal `json:"price"`
	Images []string        `json:"images"`
	Stock  int             `json:"stock"`
}

type Item struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Product   Product   `json:"product"`
}

type Repo struct{ DB *pgxpool.Pool }

// Toggle removes the (user, product) row when present and inserts it
// otherwise. It reports whether the product is saved afterwards.
func (r *Repo) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	ct, err := r.DB.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return false, err
	}
	if ct.RowsAffected() > 0 {
		return false, nil
	}
	var id string
	err = r.DB.QueryRow(ctx, `
		INSERT INTO wishlist_items(user_id, product_id)
		SELECT $1::uuid, p.id FROM products p WHERE p.id = $2 AND p.is_active
		ON CONFLICT (user_id, product_id) DO NOTHING
		RETURNING id`, userID, productID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either a concurrent toggle inserted it first or the product is gone.
		saved, cerr := r.Contains(ctx, userID, productID)
		if cerr != nil {
			return false, cerr
		}
		if !saved {
			return false, ErrNoSuchProduct
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repo) Contains(ctx context.Context, userID, productID string) (bool, error) {
	var ok bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM wishlist_items WHERE user_id = $1 AND product_id = $2)`,
		userID, productID).Scan(&ok)
	return ok, err
}

// List returns saved products, newest first.
func (r *Repo) List(ctx context.Context, userID string) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT w.id, w.created_at, p.id, p.slug, p.name, p.brand, p.price, p.images, p.stock
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.CreatedAt, &it.Product.ID, &it.Product.Slug, &it.Product.Name,
			&it.Product.Brand, &it.Product.Price, &it.Product.Images, &it.Product.Stock); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM wishlist_items WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

type Store interface {
	Toggle(ctx context.Context, userID, productID string) (bool, error)
	Contains(ctx context.Context, userID, productID string) (bool, error)
	List(ctx context.Context, userID string) ([]Item, error)
	Count(ctx context.Context, userID string) (int, error)
}

type Service struct {
	Store Store
	Cache *redisx.Cache
	Log   zerolog.Logger
}

func (s *Service) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	saved, err := s.Store.Toggle(ctx, userID, productID)
	if err != nil {
		return false, err
	}
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx, fmt.Sprintf(redisx.KeyWishlistCount, userID)); err != nil {
			s.Log.Warn().Err(err).Str("user_id", userID).Msg("wishlist count invalidation failed")
		}
	}
	return saved, nil
}

func (s *Service) Contains(ctx context.Context, userID, productID string) (bool, error) {
	return s.Store.Contains(ctx, userID, productID)
}

func (s *Service) List(ctx context.Context, userID string) ([]Item, error) {
	return s.Store.List(ctx, userID)
}

func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	return redisx.Remember(ctx, s.Cache, fmt.Sprintf(redisx.KeyWishlistCount, userID), redisx.TTLCounter,
		func(ctx context.Context) (int, error) { return s.Store.Count(ctx, userID) })
}
