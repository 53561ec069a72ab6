package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/crucial707/milstock/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

type key string

const userKey key = "user"

// UserLoader fetches the authenticated user by id. Satisfied by repo.UserRepo.
type UserLoader interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// Authenticator validates the Bearer token and loads the full user record
// (role, home base, superuser flag) into the request context so handlers can
// consult the authorization policy without another lookup.
func Authenticator(secret []byte, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				unauthorized(w)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				unauthorized(w)
				return
			}
			rawID, ok := claims["user_id"].(float64)
			if !ok {
				unauthorized(w)
				return
			}

			user, err := users.GetByID(r.Context(), int(rawID))
			if err != nil {
				// Token refers to a deleted user: identity no longer exists.
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFrom returns the authenticated user stored by Authenticator.
func UserFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok
}

// WithUser returns a context carrying the user. Exported for handler tests.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}
