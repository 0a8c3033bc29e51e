package ports

import (
	"context"

	"github.com/imagevision/vision-api/internal/core/domain"
)

// CredentialStore defines the interface for account persistence.
//
// Create must enforce username and email uniqueness atomically at write time
// and return domain.ErrAlreadyRegistered on collision; the service-level
// pre-check is an optimization, not the correctness mechanism.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// SetActive flips the active flag. Deactivation is an administrative
	// action with no HTTP surface; it exists so operators can lock accounts
	// and so resolve can be exercised against inactive accounts.
	SetActive(ctx context.Context, username string, active bool) error
}
