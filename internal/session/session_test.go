package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func newVerifier(t *testing.T) (*Verifier, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	return NewVerifier(secret, redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func sign(t *testing.T, key string, method jwt.SigningMethod, c Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, c).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func claimsFor(sub string, exp time.Time) Claims {
	return Claims{
		Email: "asha@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestVerifyValidToken(t *testing.T) {
	v, _ := newVerifier(t)
	uid := uuid.NewString()
	tok := sign(t, secret, jwt.SigningMethodHS256, claimsFor(uid, time.Now().Add(time.Hour)))

	id, err := v.Verify(context.Background(), "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, uid, id.UserID)
	assert.Equal(t, "asha@example.com", id.Email)
	assert.NotEmpty(t, id.TokenID)
}

func TestVerifyRejects(t *testing.T) {
	v, _ := newVerifier(t)
	uid := uuid.NewString()

	cases := map[string]string{
		"empty":         "",
		"garbage":       "Bearer not.a.jwt",
		"wrong secret":  sign(t, "other", jwt.SigningMethodHS256, claimsFor(uid, time.Now().Add(time.Hour))),
		"expired":       sign(t, secret, jwt.SigningMethodHS256, claimsFor(uid, time.Now().Add(-time.Minute))),
		"wrong alg":     sign(t, secret, jwt.SigningMethodHS512, claimsFor(uid, time.Now().Add(time.Hour))),
		"non-uuid sub":  sign(t, secret, jwt.SigningMethodHS256, claimsFor("anon", time.Now().Add(time.Hour))),
		"no expiration": sign(t, secret, jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: uid}}),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tok)
			assert.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestSignOutRevokesToken(t *testing.T) {
	v, mr := newVerifier(t)
	tok := sign(t, secret, jwt.SigningMethodHS256, claimsFor(uuid.NewString(), time.Now().Add(time.Hour)))
	ctx := context.Background()

	id, err := v.Verify(ctx, tok)
	require.NoError(t, err)
	require.NoError(t, v.SignOut(ctx, id))

	_, err = v.Verify(ctx, tok)
	assert.ErrorIs(t, err, ErrRevoked)

	ttl := mr.TTL("session:revoked:" + id.TokenID)
	assert.True(t, ttl > 0 && ttl <= time.Hour)
}

func TestTokenIDFallsBackToHash(t *testing.T) {
	a := tokenID("", "tok-a")
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, tokenID("", "tok-b"))
	assert.Equal(t, "jti", tokenID("jti", "tok-a"))
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: "u1"})
	id, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", id.UserID)
}
