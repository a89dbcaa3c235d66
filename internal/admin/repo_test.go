package admin

import (
	"context"
	"testing"

	"github.com/ariefcatur/feelitbuy/internal/postgres/pgtest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoJoinsProfilesAndRoles(t *testing.T) {
	pool := pgtest.Open(t)
	ctx := context.Background()
	repo := &Repo{DB: pool}
	admin, shopper := uuid.NewString(), uuid.NewString()

	_, err := pool.Exec(ctx, `INSERT INTO profiles(id, full_name) VALUES ($1, 'Admin'), ($2, 'Shopper')`, admin, shopper)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO user_roles(user_id, role) VALUES ($1, 'admin'), ($1, 'support')`, admin)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		INSERT INTO orders(user_id, total_amount, shipping_address)
		VALUES ($1, 2200, '{"fullName":"Shopper"}'), ($2, 50, '{}')`, shopper, uuid.NewString())
	require.NoError(t, err)
	pgtest.SeedProduct(t, pool, "desk", "Desk", "100", 1)

	ok, err := repo.HasRole(ctx, admin, RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.HasRole(ctx, shopper, RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	roles := map[string][]string{}
	for _, u := range users {
		roles[u.ID] = u.Roles
	}
	assert.Equal(t, []string{"admin", "support"}, roles[admin])
	assert.Empty(t, roles[shopper])

	rows, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	named := 0
	for _, r := range rows {
		if r.CustomerName != nil {
			named++
			assert.Equal(t, "Shopper", *r.CustomerName)
		}
	}
	assert.Equal(t, 1, named)

	st, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2250.00", st.TotalRevenue.StringFixed(2))
	assert.Equal(t, 2, st.TotalOrders)
	assert.Equal(t, 1, st.ActiveProducts)
	assert.Equal(t, 2, st.TotalUsers)
}
