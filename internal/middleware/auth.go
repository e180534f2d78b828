package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/truthcasting/service/internal/response"
	"github.com/truthcasting/service/internal/user"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

// currentUserKey is the context key for the authenticated user.
const currentUserKey contextKey = "currentUser"

// UserResolver resolves a token subject to a stored account.
type UserResolver interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

// UserFrom extracts the authenticated user from the request context.
func UserFrom(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(currentUserKey).(*user.User)
	return u, ok
}

// RequireAuth returns middleware that validates a Bearer JWT, resolves the
// subject to a stored account, and injects the user into the request context.
//
// Rejections are deliberately not uniform: a missing or unverifiable token is a
// client-side auth failure (403), a token that verifies but references no known
// account is an internal consistency problem (500), and a resolved but disabled
// account is 401. Downstream handlers never see an inactive user.
func RequireAuth(jwtSecret string, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Forbidden(w, "Not authorized, token failed")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Forbidden(w, "Not authorized, token failed")
				return
			}

			token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				log.Printf("auth: token verification failed: %v", err)
				response.Forbidden(w, "Not authorized, token failed")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				response.Forbidden(w, "Not authorized, token failed")
				return
			}
			sub, _ := claims["sub"].(string)

			u, err := users.FindByID(r.Context(), sub)
			if err != nil {
				// Verified token pointing at a missing account means the
				// identity store and the token issuer disagree.
				log.Printf("auth: token subject %q did not resolve: %v", sub, err)
				response.InternalError(w, "Issue finding logged in user")
				return
			}

			if !u.IsActive {
				response.Unauthorized(w, "Not authorized, token failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// RequireRoles returns middleware that rejects authenticated users whose role
// is not in the allowed set. Composes after RequireAuth.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFrom(r.Context())
			if !ok {
				response.Forbidden(w, "Not authorized, token failed")
				return
			}
			for _, role := range roles {
				if u.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Forbidden(w, "User role "+u.Role+" is not authorized to access this route")
		})
	}
}
