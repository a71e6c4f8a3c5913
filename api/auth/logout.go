package auth

import (
	"net/http"

	"eterna_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandleLogout blacklists whatever valid tokens the browser holds and clears the cookies
func (arm *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	accessClaims, err := lib.ExtractClaims(r, arm.authService.AccessTokenSecret())
	if err != nil {
		arm.logger.Debug("No valid access token during logout", gecho.Field("error", err))
	}

	refreshClaims, err := lib.ExtractRefreshClaims(r, arm.authService.RefreshTokenSecret())
	if err != nil {
		arm.logger.Debug("No valid refresh token during logout", gecho.Field("error", err))
	}

	arm.authService.Logout(accessClaims, refreshClaims)
	lib.ClearSessionCookies(w)

	gecho.Success(w,
		gecho.WithMessage("Logged out successfully"),
		gecho.Send(),
	)
}
