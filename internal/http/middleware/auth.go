package middleware

import (
	"context"
	"net/http"
	"strings"

	"jobboard/internal/common"
	"jobboard/internal/domain/user"
	"jobboard/internal/http/response"
	"jobboard/internal/security"
)

type contextKey string

const ContextUserKey contextKey = "user"

// UserLookup resolves the account behind a verified token.
type UserLookup interface {
	Get(ctx context.Context, id common.UUID) (*user.User, error)
}

type AuthMiddleware struct {
	jwt   *security.JWTProvider
	users UserLookup
}

func NewAuthMiddleware(jwt *security.JWTProvider, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid authorization header", nil))
			return
		}
		claims, err := m.jwt.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid token", err))
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid user id", err))
			return
		}
		account, err := m.users.Get(r.Context(), userID)
		if err != nil {
			if common.Is(err, common.CodeNotFound) {
				response.Error(w, common.NewError(common.CodeUnauthorized, "unknown user", err))
				return
			}
			response.Error(w, err)
			return
		}
		// Role comes from the directory; the claim is informational.
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), *account)))
	})
}

// Optional attaches the user when a valid bearer token is present and
// otherwise serves the request anonymously.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := m.jwt.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		account, err := m.users.Get(r.Context(), userID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), *account)))
	})
}

func RequireRole(role user.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, ok := UserFromContext(r.Context())
			if !ok {
				response.Error(w, common.NewError(common.CodeUnauthorized, "unauthorized", nil))
				return
			}
			if account.Role != role {
				response.Error(w, common.NewError(common.CodeForbidden, "insufficient role", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func WithUser(ctx context.Context, account user.User) context.Context {
	return context.WithValue(ctx, ContextUserKey, account)
}

func UserFromContext(ctx context.Context) (user.User, bool) {
	account, ok := ctx.Value(ContextUserKey).(user.User)
	return account, ok
}
