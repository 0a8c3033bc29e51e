package domain

import "errors"

// Auth and classification error taxonomy. Handlers return these unwrapped or
// wrapped with %w; the central HTTP error handler maps each to a status code.
var (
	// ErrAlreadyRegistered means the username or email is already taken.
	ErrAlreadyRegistered = errors.New("client already registered")

	// ErrInvalidCredentials covers both unknown username and wrong password,
	// deliberately indistinguishable to prevent username enumeration.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrUserNotFound is an internal sentinel returned by the credential
	// store; login translates it to ErrInvalidCredentials before it can
	// reach a client.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidToken means the token is malformed or its signature does not
	// verify under the configured secret.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired means the signature verified but the exp claim passed.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenRevoked means the token was explicitly invalidated by logout
	// before its natural expiry.
	ErrTokenRevoked = errors.New("token has been revoked")

	// ErrAuthenticationFailed means a structurally valid token names a
	// subject that no longer exists.
	ErrAuthenticationFailed = errors.New("could not validate credentials")

	// ErrInactiveAccount means the token and subject are valid but the
	// account has been deactivated.
	ErrInactiveAccount = errors.New("inactive account")

	// ErrStoreUnavailable marks I/O failures in the credential or revocation
	// store. The only retryable class; never conflated with credential errors.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUnsupportedImage means the uploaded bytes could not be decoded as a
	// known image format.
	ErrUnsupportedImage = errors.New("unsupported or corrupt image")

	// ErrClassifierUnavailable means the inference backend failed or returned
	// an unusable response.
	ErrClassifierUnavailable = errors.New("classifier unavailable")
)
