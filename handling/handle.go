package handling

import (
	"errors"
	"net/http"

	"eterna_server/lib"

	"github.com/MonkyMars/gecho"
)

func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	gecho.InternalServerError(w, gecho.WithMessage(msg), gecho.Send())
	return nil
}

// HandleServiceError maps service errors onto responses. User-facing messages
// are sent verbatim; anything unrecognized becomes a 500 with fallback.
func HandleServiceError(err error, fallback string, logger *gecho.Logger, w http.ResponseWriter) error {
	var userErr *lib.UserError
	var validationErr *lib.ValidationError

	switch {
	case errors.As(err, &userErr):
		gecho.BadRequest(w, gecho.WithMessage(userErr.Message), gecho.Send())
		return nil
	case errors.As(err, &validationErr):
		gecho.BadRequest(w,
			gecho.WithMessage("Please check the submitted information and try again"),
			gecho.WithData(validationErr.Errors),
			gecho.Send(),
		)
		return nil
	case errors.Is(err, lib.ErrConfirmationRequired):
		gecho.BadRequest(w, gecho.WithMessage("This action must be confirmed with ?confirm=true"), gecho.Send())
		return nil
	case errors.Is(err, lib.ErrEmptyName):
		gecho.BadRequest(w, gecho.WithMessage("Name must not be empty"), gecho.Send())
		return nil
	case errors.Is(err, lib.ErrReference):
		gecho.BadRequest(w, gecho.WithMessage("The referenced record no longer exists"), gecho.Send())
		return nil
	case errors.Is(err, lib.ErrNotFound):
		gecho.NotFound(w, gecho.WithMessage("Resource not found"), gecho.Send())
		return nil
	case errors.Is(err, lib.ErrConflict):
		gecho.Conflict(w, gecho.WithMessage("A record with the same value already exists"), gecho.Send())
		return nil
	case errors.Is(err, lib.ErrInvalidCredentials):
		gecho.Unauthorized(w, gecho.WithMessage("Invalid credentials"), gecho.Send())
		return nil
	case errors.Is(err, lib.ErrInvalidToken), errors.Is(err, lib.ErrExpiredToken):
		gecho.Unauthorized(w, gecho.WithMessage("Please sign in again"), gecho.Send())
		return nil
	case errors.Is(err, lib.ErrUnauthorizedAccess):
		gecho.Forbidden(w, gecho.WithMessage(lib.ErrUnauthorizedAccess.Error()), gecho.Send())
		return nil
	}

	return HandleError(err, fallback, logger, w)
}

// HandleBodyError answers 400 for a body that failed to decode or validate
func HandleBodyError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) error {
	logger.Debug("Rejected request body", gecho.Field("error", err))

	var validationErr *lib.ValidationError
	if errors.As(err, &validationErr) {
		gecho.BadRequest(w, gecho.WithMessage(msg), gecho.WithData(validationErr.Errors), gecho.Send())
		return nil
	}
	gecho.BadRequest(w, gecho.WithMessage(msg), gecho.Send())
	return nil
}
