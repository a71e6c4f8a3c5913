package auth

import (
	"net/http"

	"eterna_server/handling"
	"eterna_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandleRefresh rotates the token pair using the refresh cookie
func (arm *AuthRoutesManager) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	claims, err := lib.ExtractRefreshClaims(r, arm.authService.RefreshTokenSecret())
	if err != nil {
		arm.logger.Debug("Refresh rejected", gecho.Field("error", err))
		lib.ClearSessionCookies(w)
		gecho.Unauthorized(w, gecho.WithMessage("Please sign in again"), gecho.Send())
		return
	}

	session, accessToken, refreshToken, err := arm.authService.Refresh(r.Context(), claims)
	if err != nil {
		lib.ClearSessionCookies(w)
		handling.HandleServiceError(err, "Unable to refresh session", arm.logger, w)
		return
	}

	lib.SetCookie(lib.RefreshCookieName, refreshToken, arm.authService.GetRefreshTokenExpiration(), w)
	lib.SetCookie(lib.AccessCookieName, accessToken, arm.authService.GetAccessTokenExpiration(), w)

	gecho.Success(w,
		gecho.WithMessage("Session refreshed"),
		gecho.WithData(session),
		gecho.Send(),
	)
}
