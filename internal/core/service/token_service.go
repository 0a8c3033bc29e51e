package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/imagevision/vision-api/internal/core/domain"
	"github.com/imagevision/vision-api/internal/core/ports"
)

// TokenService issues and verifies HS256 JWTs and enforces the revocation
// denylist. The signing secret is process-wide read-only configuration;
// rotating it invalidates every outstanding token.
type TokenService struct {
	secret      []byte
	ttl         time.Duration
	revocations ports.RevocationStore
	now         func() time.Time
}

func NewTokenService(secret string, ttl time.Duration, revocations ports.RevocationStore) *TokenService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &TokenService{
		secret:      []byte(secret),
		ttl:         ttl,
		revocations: revocations,
		now:         time.Now,
	}
}

// Issue creates a signed token binding subject for the configured TTL. The
// jti claim is the identifier the revocation store keys on.
func (s *TokenService) Issue(subject string) (string, error) {
	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		ID:        uuid.NewString(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify checks signature, expiry and revocation, in that order, each step
// short-circuiting to its own error. Signature is checked before expiry so a
// tampered token is indistinguishable from an expired one only by its error,
// never by skipped work.
func (s *TokenService) Verify(ctx context.Context, token string) (*domain.TokenInfo, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}

	revoked, err := s.revocations.Contains(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: revocation check: %v", domain.ErrStoreUnavailable, err)
	}
	if revoked {
		return nil, domain.ErrTokenRevoked
	}

	return &domain.TokenInfo{
		Subject:   claims.Subject,
		TokenID:   claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke denylists the token until its natural expiry. The token is decoded
// without claim validation: an already-expired token still decodes, and
// revoking it (or one already on the denylist) is not an error. The store
// entry carries the exp claim so it can be retired once the token could no
// longer be replayed anyway.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &jwt.RegisteredClaims{}
	if _, err := parser.ParseWithClaims(token, claims, s.keyFunc); err != nil {
		return domain.ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return domain.ErrInvalidToken
	}
	if !claims.ExpiresAt.Time.After(s.now()) {
		// Past its own expiry: nothing to denylist.
		return nil
	}

	if err := s.revocations.Insert(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("%w: revoke: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return s.secret, nil
}
