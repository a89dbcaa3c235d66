// Package session verifies bearer tokens issued by the hosted auth provider
// and carries the resulting Identity through request contexts.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ariefcatur/feelitbuy/internal/redisx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrRevoked         = errors.New("session signed out")
)

// Identity is the verified caller. Handlers receive it from the request
// context and pass UserID down explicitly.
type Identity struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Claims mirrors the provider's access token payload.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
	rdb    redis.Cmdable
	now    func() time.Time
}

func NewVerifier(secret string, rdb redis.Cmdable) *Verifier {
	return &Verifier{secret: []byte(secret), rdb: rdb, now: time.Now}
}

// Verify parses an "Authorization" header value or a bare token.
func (v *Verifier) Verify(ctx context.Context, raw string) (Identity, error) {
	tok := strings.TrimSpace(raw)
	if len(tok) > 7 && strings.EqualFold(tok[:7], "bearer ") {
		tok = strings.TrimSpace(tok[7:])
	}
	if tok == "" {
		return Identity{}, ErrUnauthenticated
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return Identity{}, fmt.Errorf("%w: subject is not a user id", ErrUnauthenticated)
	}

	id := Identity{
		UserID:    claims.Subject,
		Email:     claims.Email,
		TokenID:   tokenID(claims.ID, tok),
		ExpiresAt: claims.ExpiresAt.Time,
	}
	revoked, err := redisx.Exists(ctx, v.rdb, fmt.Sprintf(redisx.KeyRevokedToken, id.TokenID))
	if err != nil {
		return Identity{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Identity{}, ErrRevoked
	}
	return id, nil
}

// SignOut revokes the token behind id until it would have expired anyway.
func (v *Verifier) SignOut(ctx context.Context, id Identity) error {
	ttl := id.ExpiresAt.Sub(v.now())
	if ttl <= 0 {
		return nil
	}
	return v.rdb.Set(ctx, fmt.Sprintf(redisx.KeyRevokedToken, id.TokenID), "1", ttl).Err()
}

func tokenID(jti, raw string) string {
	if jti != "" {
		return jti
	}
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:16])
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
