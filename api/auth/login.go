package auth

import (
	"errors"
	"net/http"

	"eterna_server/handling"
	"eterna_server/lib"
	"eterna_server/structs"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AuthRequest](r)
	if err != nil {
		arm.logger.Debug("Failed to extract login body", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Email and password are required"), gecho.Send())
		return
	}

	session, err := arm.authService.Login(r.Context(), body)
	if err != nil {
		if errors.Is(err, lib.ErrUnauthorizedAccess) {
			lib.ClearSessionCookies(w)
		}
		handling.HandleServiceError(err, "Unable to complete login. Please try again", arm.logger, w)
		return
	}

	if err := arm.issueSession(w, session); err != nil {
		handling.HandleError(err, "Unable to complete login. Please try again", arm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Login successful"),
		gecho.WithData(session),
		gecho.Send(),
	)
}

// issueSession sets fresh token cookies and a CSRF cookie for an admin session
func (arm *AuthRoutesManager) issueSession(w http.ResponseWriter, session *structs.AdminSession) error {
	accessToken, refreshToken, err := arm.authService.GenerateTokens(session)
	if err != nil {
		return err
	}

	csrfToken, err := lib.GenerateCSRFToken()
	if err != nil {
		return err
	}

	lib.SetCookie(lib.RefreshCookieName, refreshToken, arm.authService.GetRefreshTokenExpiration(), w)
	lib.SetCookie(lib.AccessCookieName, accessToken, arm.authService.GetAccessTokenExpiration(), w)
	lib.SetCSRFCookie(csrfToken, arm.authService.GetRefreshTokenExpiration(), w)
	return nil
}
