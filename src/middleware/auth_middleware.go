package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"fintrack-server/src/auth"
	"fintrack-server/src/util"
)

type contextKey string

const userIDKey contextKey = "user_id"

// JWTAuthMiddleware resolves the caller identity from the Authorization
// header and stores it on the request context.
func JWTAuthMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := auth.ResolveIdentity(r.Header.Get("Authorization"), secret)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected credential")
				util.WriteError(w, http.StatusUnauthorized, "unauthenticated")
				return
			}

			ctx := WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the identity set by JWTAuthMiddleware, or "".
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}
