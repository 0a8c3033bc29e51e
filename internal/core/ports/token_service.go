package ports

import (
	"context"

	"github.com/imagevision/vision-api/internal/core/domain"
)

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	// Issue creates a signed token for subject, valid for the configured TTL.
	Issue(subject string) (string, error)

	// Verify checks, in order: signature (domain.ErrInvalidToken), expiry
	// (domain.ErrTokenExpired), then revocation (domain.ErrTokenRevoked).
	// The revocation check runs on every call, not only at logout.
	Verify(ctx context.Context, token string) (*domain.TokenInfo, error)

	// Revoke denylists the token until its natural expiry. Idempotent;
	// revoking an already-expired token is a no-op success.
	Revoke(ctx context.Context, token string) error
}
