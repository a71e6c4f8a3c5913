package middleware

import (
	"context"
	"errors"
	"net/http"

	"eterna_server/lib"
	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
)

// Context keys for storing session data in request context
type contextKey string

const (
	SessionContextKey contextKey = "session"
	ClaimsContextKey  contextKey = "claims"
)

// AdminAuthMiddleware admits only requests whose access token belongs to a
// profile that is still an admin. A signed-in non-admin has its cookies cleared.
func (mw *Middleware) AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := lib.ExtractClaims(r, mw.sessions.AccessTokenSecret())
		if err != nil {
			mw.logger.Debug("Failed to extract claims from request", gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		session, err := mw.sessions.VerifyAdmin(r.Context(), claims)
		if err != nil {
			if errors.Is(err, lib.ErrUnauthorizedAccess) {
				mw.logger.Warn("Non-admin user attempted to access admin route", gecho.Field("user_id", claims.Sub))
				lib.ClearSessionCookies(w)
				gecho.Forbidden(w, gecho.WithMessage(lib.ErrUnauthorizedAccess.Error()), gecho.Send())
				return
			}

			mw.logger.Warn("Admin session rejected", gecho.Field("error", err), gecho.Field("user_id", claims.Sub))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid or missing access token"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		ctx = context.WithValue(ctx, SessionContextKey, session)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionFromContext is a helper function to extract the admin session from request context
func GetSessionFromContext(ctx context.Context) (*structs.AdminSession, bool) {
	session, ok := ctx.Value(SessionContextKey).(*structs.AdminSession)
	return session, ok
}

// GetClaimsFromContext is a helper function to extract the claims from request context
func GetClaimsFromContext(ctx context.Context) (*structs.AuthClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.AuthClaims)
	return claims, ok
}
