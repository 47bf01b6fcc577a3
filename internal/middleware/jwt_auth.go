package middleware

import (
	"context"
	"net/http"
	"strings"

	"fitness/internal/auth"
)

type ctxKey string

const (
	CtxAccountID ctxKey = "account_id"
	CtxUserName  ctxKey = "user_name"
	CtxRole      ctxKey = "role"
)

// JWTAuth rejects requests without a valid bearer token and stores the token's
// subject, user name and role in the request context.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Missing Authorization header")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid Authorization header")
				return
			}

			claims, err := auth.Parse(secret, strings.TrimSpace(parts[1]))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), CtxAccountID, claims.Subject)
			ctx = context.WithValue(ctx, CtxUserName, claims.UserName)
			ctx = context.WithValue(ctx, CtxRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only when the token role is one of roles.
// It must run after JWTAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "forbidden", "Insufficient role")
		})
	}
}

func AccountIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CtxAccountID).(string)
	return v
}

func UserNameFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CtxUserName).(string)
	return v
}

func RoleFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CtxRole).(string)
	return v
}
