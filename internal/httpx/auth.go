package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/feelitbuy/internal/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

type Authenticator interface {
	Verify(ctx context.Context, raw string) (session.Identity, error)
	SignOut(ctx context.Context, id session.Identity) error
}

// RoleChecker answers has_role(uid, 'admin').
type RoleChecker interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// RequireUser verifies the bearer token and stores the Identity on the
// request context. Browsers opening the websocket cannot set headers, so
// the token may also come in the access_token query parameter.
func RequireUser(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				raw = r.URL.Query().Get("access_token")
			}
			id, err := auth.Verify(r.Context(), raw)
			if err != nil {
				writeError(w, r, err)
				return
			}
			hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("user_id", id.UserID)
			})
			next.ServeHTTP(w, r.WithContext(session.WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAdmin must run after RequireUser.
func RequireAdmin(roles RoleChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := session.FromContext(r.Context())
			if !ok {
				writeError(w, r, session.ErrUnauthenticated)
				return
			}
			admin, err := roles.IsAdmin(r.Context(), id.UserID)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if !admin {
				writeError(w, r, errForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// identity is only called behind RequireUser.
func identity(r *http.Request) session.Identity {
	id, _ := session.FromContext(r.Context())
	return id
}
