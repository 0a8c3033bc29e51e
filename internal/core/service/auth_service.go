package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/imagevision/vision-api/internal/core/domain"
	"github.com/imagevision/vision-api/internal/core/ports"
)

// AuthService implements registration, login, logout and per-request identity
// resolution. It is stateless across requests; all durable state lives in the
// credential and revocation stores.
type AuthService struct {
	users  ports.CredentialStore
	tokens ports.TokenService
	logger zerolog.Logger
}

func NewAuthService(users ports.CredentialStore, tokens ports.TokenService, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Register creates a new account. The lookup is a fast pre-check; the store's
// unique indexes are the authoritative guard, so a concurrent duplicate still
// resolves to exactly one success.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByUsernameOrEmail(ctx, username, email); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues a token. Unknown username and wrong
// password return the identical error, and the unknown-username path still
// performs a hash comparison so the two are not separable by latency.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			VerifyPassword(password, string(dummyHash))
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("username", username).Msg("login")
	return token, nil
}

// Logout verifies the token (revocation check included) and then denylists
// it. A token that is already expired, revoked or malformed fails with the
// corresponding error rather than reporting success.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	info, err := s.tokens.Verify(ctx, token)
	if err != nil {
		return err
	}

	if err := s.tokens.Revoke(ctx, token); err != nil {
		return err
	}

	s.logger.Info().Str("username", info.Subject).Msg("logout")
	return nil
}

// ResolveUser verifies the token and loads the account it names. The account
// lookup runs on every call: the active flag and revocation state can change
// between requests, so nothing here may be cached.
func (s *AuthService) ResolveUser(ctx context.Context, token string) (*domain.User, error) {
	info, err := s.tokens.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByUsername(ctx, info.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Valid token, but the subject no longer exists.
			return nil, domain.ErrAuthenticationFailed
		}
		return nil, err
	}

	if !user.Active {
		return nil, domain.ErrInactiveAccount
	}

	return user, nil
}
