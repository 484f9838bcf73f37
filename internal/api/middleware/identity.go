package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Cheertaboi/farmfresh-storefront/internal/models"
	"github.com/Cheertaboi/farmfresh-storefront/internal/service"
)

// TokenCookie holds the sign-in token.
const TokenCookie = "auth_token"

type ctxKey struct{}

// Resolver turns a token into the identity it was issued to.
type Resolver interface {
	Resolve(ctx context.Context, token string) (models.Identity, error)
}

func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(models.Identity)
	return id, ok
}

// Token extracts the sign-in token from the cookie or a bearer header.
func Token(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// Identify resolves the caller, if any, once per request. Unknown tokens
// are treated as anonymous.
func Identify(resolver Resolver, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := Token(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := resolver.Resolve(r.Context(), token)
			switch {
			case err == nil:
				r = r.WithContext(WithIdentity(r.Context(), id))
			case errors.Is(err, service.ErrUnauthenticated):
			default:
				log.Error("resolve identity", zap.Error(err))
				deny(w, http.StatusInternalServerError, "internal_error")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser rejects anonymous requests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			deny(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects callers without the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		switch {
		case !ok:
			deny(w, http.StatusUnauthorized, "unauthenticated")
		case !id.IsAdmin():
			deny(w, http.StatusForbidden, "forbidden")
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func deny(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
