package auth

import (
	"net/http"

	"eterna_server/api/middleware"

	"github.com/MonkyMars/gecho"
)

// HandleSession reports the current admin session; the middleware has already verified it
func (arm *AuthRoutesManager) HandleSession(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		gecho.Unauthorized(w, gecho.WithMessage("Please sign in again"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(session),
		gecho.Send(),
	)
}
