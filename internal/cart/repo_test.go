package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/ariefcatur/feelitbuy/internal/postgres/pgtest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoAddOneReconciles(t *testing.T) {
	pool := pgtest.Open(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()
	user := uuid.NewString()
	pid := pgtest.SeedProduct(t, pool, "wireless-buds", "Wireless Buds", "500", 4)

	for i := 1; i <= 4; i++ {
		it, err := repo.AddOne(ctx, user, pid)
		require.NoError(t, err)
		assert.Equal(t, i, it.Quantity)
	}
	_, err := repo.AddOne(ctx, user, pid)
	assert.ErrorIs(t, err, ErrStockLimit)

	lines, err := repo.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 4, lines[0].Quantity)
	assert.Equal(t, "wireless-buds", lines[0].Product.Slug)
}

func TestRepoConcurrentAddsNeverDuplicate(t *testing.T) {
	pool := pgtest.Open(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()
	user := uuid.NewString()
	pid := pgtest.SeedProduct(t, pool, "smart-watch", "Smart Watch", "1200", 50)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddOne(ctx, user, pid)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := repo.Count(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	lines, err := repo.List(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 10, lines[0].Quantity)
}

func TestRepoAddOneRejects(t *testing.T) {
	pool := pgtest.Open(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()
	user := uuid.NewString()

	soldOut := pgtest.SeedProduct(t, pool, "sold-out", "Sold Out", "99", 0)
	_, err := repo.AddOne(ctx, user, soldOut)
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = repo.AddOne(ctx, user, uuid.NewString())
	assert.ErrorIs(t, err, ErrNoSuchProduct)
}

func TestRepoStepAndScope(t *testing.T) {
	pool := pgtest.Open(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()
	user, other := uuid.NewString(), uuid.NewString()
	pid := pgtest.SeedProduct(t, pool, "speaker", "Speaker", "750", 2)

	it, err := repo.AddOne(ctx, user, pid)
	require.NoError(t, err)

	q, err := repo.Step(ctx, user, it.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, q)

	q, err = repo.Step(ctx, user, it.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, q)

	_, err = repo.Step(ctx, user, it.ID, 1)
	assert.ErrorIs(t, err, ErrStockLimit)

	_, err = repo.Step(ctx, other, it.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.SetQuantity(ctx, user, it.ID, 3), ErrStockLimit)
	assert.ErrorIs(t, repo.Remove(ctx, other, it.ID), ErrNotFound)
	require.NoError(t, repo.Remove(ctx, user, it.ID))
}
