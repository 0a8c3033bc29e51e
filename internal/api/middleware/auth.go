package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/imagevision/vision-api/internal/core/ports"
)

// Context keys set for downstream handlers.
const (
	ContextKeyUser     = "user"
	ContextKeyUsername = "username"
)

// BearerToken extracts the bearer token from the Authorization header.
func BearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}

// Auth resolves the caller's identity for every protected request: token
// verification (signature, expiry, revocation) followed by an account load
// with the active-flag check. Resolution happens per request and is never
// cached; revocation and deactivation take effect on the next call.
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := BearerToken(c)
			if err != nil {
				return err
			}

			user, err := auth.ResolveUser(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(ContextKeyUser, user)
			c.Set(ContextKeyUsername, user.Username)

			return next(c)
		}
	}
}
