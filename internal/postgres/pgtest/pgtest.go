// Package pgtest opens the integration-test database named by TEST_POSTGRES_DSN.
package pgtest

import (
	"context"
	"os"
	"testing"

	"github.com/ariefcatur/feelitbuy/internal/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const EnvDSN = "TEST_POSTGRES_DSN"

// Open skips the test when no database is configured. Every table is
// truncated so each test starts from an empty schema.
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s not set", EnvDSN)
	}
	require.NoError(t, postgres.Migrate(dsn))

	ctx := context.Background()
	pool, err := postgres.Connect(ctx, dsn, "feelitbuy-test", 4)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE order_items, orders, cart_items, wishlist_items,
		reviews, products, categories, user_roles, profiles CASCADE`)
	require.NoError(t, err)
	return pool
}

// SeedProduct inserts an active product and returns its id.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, slug, name, price string, stock int) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(), `
		INSERT INTO products(slug, name, brand, price, stock, images)
		VALUES ($1, $2, 'FeelItBuy', $3::numeric, $4, ARRAY['/img/'||$1||'.jpg'])
		RETURNING id`, slug, name, price, stock).Scan(&id)
	require.NoError(t, err)
	return id
}
