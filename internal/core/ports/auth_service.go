package ports

import (
	"context"

	"github.com/imagevision/vision-api/internal/core/domain"
)

// AuthService orchestrates registration, login, logout and per-request
// identity resolution.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error

	// ResolveUser verifies the token and loads the account it names. Invoked
	// on every protected request; results must not be cached across requests
	// because the active flag and revocation state can change between calls.
	ResolveUser(ctx context.Context, token string) (*domain.User, error)
}
