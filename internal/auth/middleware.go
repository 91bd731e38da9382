package auth

import (
	"context"
	"net/http"
	"strings"

	"openmusic-service/internal/httpx"
)

type ctxUserIDKey struct{}

// RequireUser rejects requests without a valid access token and stores the
// caller's user id in the request context.
func (m *TokenManager) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			httpx.Fail(w, http.StatusUnauthorized, "missing authentication")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httpx.Fail(w, http.StatusUnauthorized, "invalid Authorization header")
			return
		}

		claims, err := m.VerifyAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			httpx.Fail(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
	})
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxUserIDKey{}, userID)
}

// UserID returns the authenticated user id, if any.
func UserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxUserIDKey{}).(string)
	return v, ok && v != ""
}
