package middleware

import (
	"context"
	"errors"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
	"net/http"
	"strings"
)

type contextKey string

const userContextKey contextKey = "user"

// IdentityResolver loads the user behind a verified token.
type IdentityResolver interface {
	ResolveUser(ctx context.Context, userID int64) (*models.User, error)
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok && user != nil
}

func UserIDFromContext(ctx context.Context) (int64, bool) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return 0, false
	}
	return user.ID, true
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// JWTAuthMiddleware rejects requests without a bearer token (401), with a
// token that fails verification (403), or whose user no longer exists (401).
func JWTAuthMiddleware(tokens *util.TokenIssuer, users IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := BearerToken(r)
			if !ok {
				util.WriteError(w, r, util.Unauthorized("Access token required"))
				return
			}

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				util.WriteError(w, r, util.Wrap(util.ErrForbidden, "Invalid or expired token", err))
				return
			}

			user, err := users.ResolveUser(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, util.ErrUnauthorized) {
					util.WriteError(w, r, util.Unauthorized("User not found"))
					return
				}
				util.WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
