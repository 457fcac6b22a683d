package middleware

import (
	"net/http"

	"wholesale-be/internal/apperror"
	"wholesale-be/internal/auth"
	"wholesale-be/internal/logger"
	"wholesale-be/internal/utils"

	"go.uber.org/zap"
)

type TokenParser interface {
	Parse(tokenStr string) (*auth.Claims, error)
}

var errUnauthorized = apperror.New(apperror.KindUnauthorized, "unauthorized")

// Authenticate resolves the caller from the session cookie or bearer token.
// Requests without a token pass through anonymously; a bad or expired token
// ends the session.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("rejected access token", zap.Error(err))
				auth.TerminateSession(w)
				utils.WriteError(r.Context(), w, errUnauthorized)
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role, claims.OutletID)
			ctx = logger.WithFields(ctx,
				zap.String("user_id", claims.UserID),
				zap.String("role", claims.Role),
				zap.String("email", utils.GetUserEmailFromContext(ctx)),
			)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole admits only callers whose role is one of roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
				utils.WriteError(r.Context(), w, errUnauthorized)
				return
			}
			if !allowed[utils.GetUserRoleFromContext(r.Context())] {
				utils.WriteError(r.Context(), w, errUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
