package ports

import (
	"context"
	"time"
)

// RevocationStore is the durable denylist of revoked token IDs.
//
// Insert must be durable before it returns: once a revocation succeeds, every
// subsequent Contains from any caller must observe it. Entries whose expiry
// has passed are dead weight and may be dropped by the store at any point.
type RevocationStore interface {
	Contains(ctx context.Context, tokenID string) (bool, error)
	Insert(ctx context.Context, tokenID string, expiresAt time.Time) error
}
