package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore is the Redis-backed token denylist.
// Key format: revoked:<token_id>
//
// Entries are written with a TTL equal to the token's remaining lifetime, so
// the denylist retires each entry exactly when the token could no longer be
// replayed anyway; no sweeper is needed. SET is synchronous, so a revocation
// is visible to every subsequent check once Insert returns.
type RevocationStore struct {
	client *redis.Client
}

// NewRevocationStore creates a RevocationStore wrapping the given Redis client.
func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

// Contains reports whether the token ID has been revoked.
func (s *RevocationStore) Contains(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

// Insert denylists the token ID until expiresAt. Writing an ID that is
// already present refreshes the same entry, so repeats are harmless.
func (s *RevocationStore) Insert(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already past expiry; an entry would be dead on arrival.
		return nil
	}
	if err := s.client.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revocation insert: %w", err)
	}
	return nil
}

func (s *RevocationStore) key(tokenID string) string {
	return "revoked:" + tokenID
}
