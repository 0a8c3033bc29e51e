package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/imagevision/vision-api/internal/core/domain"
)

func invokeErrorHandler(t *testing.T, err error) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	return rec, resp["error"]
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrAlreadyRegistered, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrInvalidToken, http.StatusUnauthorized},
		{domain.ErrTokenExpired, http.StatusUnauthorized},
		{domain.ErrTokenRevoked, http.StatusUnauthorized},
		{domain.ErrAuthenticationFailed, http.StatusUnauthorized},
		{domain.ErrInactiveAccount, http.StatusBadRequest},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrUnsupportedImage, http.StatusBadRequest},
		{domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{domain.ErrClassifierUnavailable, http.StatusBadGateway},
	}

	for _, tc := range cases {
		rec, _ := invokeErrorHandler(t, tc.err)
		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
	}
}

func TestErrorHandler_WrappedStoreErrorHidesDetail(t *testing.T) {
	wrapped := fmt.Errorf("%w: insert user: connection reset by host 10.0.0.5", domain.ErrStoreUnavailable)
	rec, msg := invokeErrorHandler(t, wrapped)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if strings.Contains(msg, "10.0.0.5") || strings.Contains(msg, "connection reset") {
		t.Fatalf("storage detail leaked to client: %q", msg)
	}
}

func TestErrorHandler_DistinctTokenErrorMessages(t *testing.T) {
	// Expired, revoked and invalid each imply a different client action, so
	// their messages must stay distinguishable.
	_, expired := invokeErrorHandler(t, domain.ErrTokenExpired)
	_, revoked := invokeErrorHandler(t, domain.ErrTokenRevoked)
	_, invalid := invokeErrorHandler(t, domain.ErrInvalidToken)

	if expired == revoked || revoked == invalid || expired == invalid {
		t.Fatalf("token error messages collapsed: %q %q %q", expired, revoked, invalid)
	}
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	rec, msg := invokeErrorHandler(t, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg != "missing authorization header" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestErrorHandler_UnexpectedErrorIsGeneric(t *testing.T) {
	rec, msg := invokeErrorHandler(t, errors.New("pq: deadlock detected on relation users"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}
