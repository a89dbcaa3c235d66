package catalog

import (
	"context"
	"testing"

	"github.com/ariefcatur/feelitbuy/internal/postgres/pgtest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsPattern(t *testing.T) {
	cases := map[string]string{
		"buds":    "%buds%",
		"50%":     `%50\%%`,
		"usb_c":   `%usb\_c%`,
		`a\b`:     `%a\\b%`,
		"100%_\\": `%100\%\_\\%`,
	}
	for in, want := range cases {
		assert.Equal(t, want, containsPattern(in), in)
	}
}

func TestRepoSearchIsLiteral(t *testing.T) {
	pool := pgtest.Open(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()

	pgtest.SeedProduct(t, pool, "charger-50", "Charger 50% Off Bundle", "799", 5)
	pgtest.SeedProduct(t, pool, "charger-500", "Charger 500W", "2999", 5)
	pgtest.SeedProduct(t, pool, "usb-c-cable", "USB_C Cable", "199", 5)
	pgtest.SeedProduct(t, pool, "usb-a-cable", "USBxC Cable", "149", 5)

	got, err := repo.ListProducts(ctx, Filter{Search: "50%"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "charger-50", got[0].Slug)

	got, err = repo.ListProducts(ctx, Filter{Search: "usb_c"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "usb-c-cable", got[0].Slug)

	got, err = repo.ListProducts(ctx, Filter{Search: "charger"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRepoDeleteReportsHolders(t *testing.T) {
	pool := pgtest.Open(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()
	pid := pgtest.SeedProduct(t, pool, "old-speaker", "Old Speaker", "999", 3)
	inCart, inWishlist, both := uuid.NewString(), uuid.NewString(), uuid.NewString()

	for _, u := range []string{inCart, both} {
		_, err := pool.Exec(ctx, `INSERT INTO cart_items(user_id, product_id, quantity) VALUES ($1, $2, 1)`, u, pid)
		require.NoError(t, err)
	}
	for _, u := range []string{inWishlist, both} {
		_, err := pool.Exec(ctx, `INSERT INTO wishlist_items(user_id, product_id) VALUES ($1, $2)`, u, pid)
		require.NoError(t, err)
	}

	slug, holders, err := repo.Delete(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, "old-speaker", slug)
	assert.ElementsMatch(t, []string{inCart, inWishlist, both}, holders)

	var left int
	require.NoError(t, pool.QueryRow(ctx, `SELECT
		(SELECT count(*) FROM cart_items) + (SELECT count(*) FROM wishlist_items)`).Scan(&left))
	assert.Zero(t, left)

	_, _, err = repo.Delete(ctx, pid)
	assert.ErrorIs(t, err, ErrNotFound)

	lonely := pgtest.SeedProduct(t, pool, "lonely", "Lonely", "10", 1)
	_, holders, err = repo.Delete(ctx, lonely)
	require.NoError(t, err)
	assert.Empty(t, holders)
}
