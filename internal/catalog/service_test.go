package catalog

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/feelitbuy/internal/redisx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	products    map[string]Product
	reviews     map[string][]Review
	slugLookups int
}

func (f *fakeStore) ListCategories(context.Context) ([]Category, error) {
	return []Category{{ID: "c1", Name: "Headphones", Slug: "headphones"}}, nil
}

func (f *fakeStore) ListProducts(_ context.Context, flt Filter) ([]Product, error) {
	var out []Product
	for _, p := range f.products {
		if flt.FeaturedOnly && !p.IsFeatured {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) GetBySlug(_ context.Context, slug string) (Product, error) {
	f.slugLookups++
	p, ok := f.products[slug]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) ListReviews(_ context.Context, productID string) ([]Review, error) {
	return f.reviews[productID], nil
}

func newService(t *testing.T, store *fakeStore) (*Service, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	cache := &redisx.Cache{RDB: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	return &Service{Store: store, Cache: cache}, mr
}

func TestDetail(t *testing.T) {
	orig := dec("1999")
	store := &fakeStore{
		products: map[string]Product{
			"aurora-buds": {ID: "p1", Slug: "aurora-buds", Price: dec("1499"), OriginalPrice: &orig, Stock: 4, IsActive: true},
		},
		reviews: map[string][]Review{"p1": {{Rating: 5}, {Rating: 4}}},
	}
	svc, mr := newService(t, store)

	d, err := svc.Detail(context.Background(), "aurora-buds")
	require.NoError(t, err)
	assert.Equal(t, 25, d.DiscountPercent)
	assert.InDelta(t, 4.5, d.AverageRating, 1e-9)
	assert.True(t, d.InStock)
	assert.Len(t, d.Reviews, 2)
	assert.True(t, mr.Exists("catalog:product:aurora-buds"))

	_, err = svc.Detail(context.Background(), "aurora-buds")
	require.NoError(t, err)
	assert.Equal(t, 1, store.slugLookups, "second read served from cache")
}

func TestDetailSoldOut(t *testing.T) {
	store := &fakeStore{products: map[string]Product{
		"sold-out": {ID: "p2", Slug: "sold-out", Price: dec("99"), Stock: 0, IsActive: true},
	}}
	svc, _ := newService(t, store)

	d, err := svc.Detail(context.Background(), "sold-out")
	require.NoError(t, err)
	assert.False(t, d.InStock)

	d, err = svc.Detail(context.Background(), "sold-out")
	require.NoError(t, err)
	assert.False(t, d.InStock, "cached copy keeps the flag")
}

func TestDetailNotFoundIsNotCached(t *testing.T) {
	svc, mr := newService(t, &fakeStore{})
	_, err := svc.Detail(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists("catalog:product:ghost"))
}

func TestDetailWithoutReviewsDefaultsRating(t *testing.T) {
	store := &fakeStore{products: map[string]Product{"x": {ID: "p9", Slug: "x", Price: dec("10")}}}
	svc, _ := newService(t, store)
	d, err := svc.Detail(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, DefaultRating, d.AverageRating)
	assert.Zero(t, d.DiscountPercent)
}

func TestProductKeys(t *testing.T) {
	assert.Equal(t, []string{"catalog:product:x", "catalog:categories"}, ProductKeys("x"))
}
