package redisx

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CacheTestSuite struct {
	suite.Suite
	mr    *miniredis.Miniredis
	cache *Cache
}

func (s *CacheTestSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	s.cache = &Cache{RDB: redis.NewClient(&redis.Options{Addr: s.mr.Addr()})}
}

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (s *CacheTestSuite) TestGetMissing() {
	var out sample
	ok, err := s.cache.GetJSON(context.Background(), "nope", &out)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *CacheTestSuite) TestSetGetRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.cache.SetJSON(ctx, "k", sample{Name: "a", Count: 2}, time.Minute))

	var out sample
	ok, err := s.cache.GetJSON(ctx, "k", &out)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(sample{Name: "a", Count: 2}, out)

	s.mr.FastForward(2 * time.Minute)
	ok, err = s.cache.GetJSON(ctx, "k", &out)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *CacheTestSuite) TestInvalidate() {
	ctx := context.Background()
	keys := UserKeys("u1")
	for _, k := range keys {
		s.Require().NoError(s.cache.SetJSON(ctx, k, 1, time.Minute))
	}
	s.Require().NoError(s.cache.Invalidate(ctx, keys...))
	for _, k := range keys {
		s.False(s.mr.Exists(k))
	}
	s.Require().NoError(s.cache.Invalidate(ctx))
}

func (s *CacheTestSuite) TestRememberLoadsOnce() {
	ctx := context.Background()
	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return 42, nil
	}
	for i := 0; i < 3; i++ {
		v, err := Remember(ctx, s.cache, fmt.Sprintf(KeyCartCount, "u1"), TTLCounter, load)
		s.Require().NoError(err)
		s.Equal(42, v)
	}
	s.Equal(1, calls)
}

func (s *CacheTestSuite) TestRememberDoesNotCacheErrors() {
	ctx := context.Background()
	boom := errors.New("boom")
	_, err := Remember(ctx, s.cache, "k", time.Minute, func(context.Context) (int, error) { return 0, boom })
	s.ErrorIs(err, boom)
	s.False(s.mr.Exists("k"))
}

func (s *CacheTestSuite) TestRememberSurvivesRedisOutage() {
	s.mr.Close()
	v, err := Remember(context.Background(), s.cache, "k", time.Minute, func(context.Context) (string, error) { return "db", nil })
	s.Require().NoError(err)
	s.Equal("db", v)
}

func TestCacheTestSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func TestRememberNilCache(t *testing.T) {
	v, err := Remember[int](context.Background(), nil, "k", time.Minute, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	require.Equal(t, 7, v)
}
