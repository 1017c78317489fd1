package middleware

import (
	"context"
	"errors"
	"net/http"

	"bookreview/internal/common"
	"bookreview/internal/common/security"
	"bookreview/internal/domain/model"
	"bookreview/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const UserCtxKey contextKey = "currentUser"

// Authenticator is the access guard on every protected route. A missing
// token gets its own error; every other failure (tampered, expired,
// malformed, unknown subject) collapses into one generic 401 so the response
// cannot be used as an oracle. The identity is re-resolved against the
// store on each request: the live record, not the token payload, carries
// the role used for authorization.
func Authenticator(users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := jwtauth.TokenFromHeader(r)
			if tokenString == "" {
				common.RespondWithError(w, http.StatusUnauthorized, common.ErrMissingCredential.Error())
				return
			}

			claims, err := security.ParseToken(tokenString)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, common.ErrInvalidCredential.Error())
				return
			}

			user, err := users.FindByName(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					common.RespondWithError(w, http.StatusUnauthorized, common.ErrInvalidCredential.Error())
				} else {
					common.RespondWithError(w, http.StatusInternalServerError, common.ErrInternalServer.Error())
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserCtxKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly gates a route on the live role resolved by Authenticator.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUserFromContext(r.Context())
		if !ok || !user.IsAdmin() {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserFromContext returns the identity Authenticator resolved.
func GetUserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(*model.User)
	return user, ok
}
