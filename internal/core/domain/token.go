package domain

import "time"

// TokenInfo is the verified content of a bearer token. TokenID is the jti
// claim, the key the revocation store tracks instead of the full token string.
type TokenInfo struct {
	Subject   string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
