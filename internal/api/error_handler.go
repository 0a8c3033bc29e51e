package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/imagevision/vision-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
//
// Credential and token errors stay specific and stable: the client can tell
// expired from revoked from malformed, because each implies a different
// corrective action. Store outages map to 503 and never collapse into a
// credential error.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. Messages are the
	// sentinel text only; wrapped storage detail never reaches the client.
	switch {
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return http.StatusBadRequest, domain.ErrAlreadyRegistered.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, domain.ErrInvalidToken.Error()
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, domain.ErrTokenExpired.Error()
	case errors.Is(err, domain.ErrTokenRevoked):
		return http.StatusUnauthorized, "token has been revoked, please log in again"
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return http.StatusUnauthorized, domain.ErrAuthenticationFailed.Error()
	case errors.Is(err, domain.ErrInactiveAccount):
		return http.StatusBadRequest, domain.ErrInactiveAccount.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, domain.ErrUserNotFound.Error()
	case errors.Is(err, domain.ErrUnsupportedImage):
		return http.StatusBadRequest, domain.ErrUnsupportedImage.Error()
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "service temporarily unavailable"
	case errors.Is(err, domain.ErrClassifierUnavailable):
		return http.StatusBadGateway, "classification backend unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
