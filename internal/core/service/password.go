package service

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when login hits an unknown username, so the
// not-found path burns the same bcrypt cost as a wrong password and the two
// failures share one latency profile.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("vision-api-enumeration-shield"), bcrypt.DefaultCost)

// HashPassword derives a salted bcrypt hash. Two calls on the same input
// produce different outputs; only VerifyPassword can check them.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash. The
// comparison is constant-time in the candidate input. A malformed stored hash
// yields false rather than an error; that is a data-integrity condition for
// the caller to log, not an auth failure class of its own.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
