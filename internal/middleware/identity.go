package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/AnshRaj112/journal-backend/internal/services"
	"go.uber.org/zap"
)

type ctxKey int

const ownerIDKey ctxKey = iota

// WithOwnerID returns a copy of ctx carrying the caller's user id.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// OwnerID returns the authenticated user id, or "" for anonymous requests.
func OwnerID(ctx context.Context) string {
	id, _ := ctx.Value(ownerIDKey).(string)
	return id
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[7:])
}

// Identity resolves the bearer token into an owner id. Requests without a
// usable token continue anonymously; handlers decide what that allows.
// A token that cannot be checked at all fails the request with 500 so a
// signed-in caller is never demoted to anonymous.
func Identity(sessions services.Sessions, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.Authenticate(r.Context(), token)
			if errors.Is(err, services.ErrUnauthorized) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				logger.Errorw("session lookup failed", "error", err)
				internalError(w, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), userID)))
		})
	}
}
