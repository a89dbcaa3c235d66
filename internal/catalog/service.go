package catalog

import (
	"context"
	"fmt"

	"github.com/ariefcatur/feelitbuy/internal/redisx"
)

// Store is the subset of Repo the storefront reads through.
type Store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListProducts(ctx context.Context, f Filter) ([]Product, error)
	GetBySlug(ctx context.Context, slug string) (Product, error)
	ListReviews(ctx context.Context, productID string) ([]Review, error)
}

type Service struct {
	Store Store
	Cache *redisx.Cache
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return redisx.Remember(ctx, s.Cache, redisx.KeyCategories, redisx.TTLCatalog, s.Store.ListCategories)
}

func (s *Service) Products(ctx context.Context, f Filter) ([]Product, error) {
	return s.Store.ListProducts(ctx, f)
}

// Detail assembles the product page: product, reviews, rating and discount.
func (s *Service) Detail(ctx context.Context, slug string) (Detail, error) {
	key := fmt.Sprintf(redisx.KeyProduct, slug)
	return redisx.Remember(ctx, s.Cache, key, redisx.TTLCatalog, func(ctx context.Context) (Detail, error) {
		p, err := s.Store.GetBySlug(ctx, slug)
		if err != nil {
			return Detail{}, err
		}
		reviews, err := s.Store.ListReviews(ctx, p.ID)
		if err != nil {
			return Detail{}, fmt.Errorf("reviews for %s: %w", slug, err)
		}
		return Detail{
			Product:         p,
			DiscountPercent: Discount(p.Price, p.OriginalPrice),
			AverageRating:   AverageRating(reviews),
			InStock:         p.InStock(),
			Reviews:         reviews,
		}, nil
	})
}

// ProductKeys lists the cache entries to drop after a product changes.
func ProductKeys(slug string) []string {
	return []string{fmt.Sprintf(redisx.KeyProduct, slug), redisx.KeyCategories}
}
