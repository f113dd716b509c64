package auth

import "crypto/subtle"

// Authorizer decides whether a credential may perform admin mutations.
type Authorizer interface {
	Authorize(credential string) bool
}

// PasswordAuthorizer accepts a single shared admin password.
type PasswordAuthorizer struct {
	secret []byte
}

// NewPasswordAuthorizer returns an authorizer for the given secret.
// An empty secret authorizes nothing.
func NewPasswordAuthorizer(secret string) *PasswordAuthorizer {
	return &PasswordAuthorizer{secret: []byte(secret)}
}

func (a *PasswordAuthorizer) Authorize(credential string) bool {
	if len(a.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(a.secret, []byte(credential)) == 1
}

// EqualSecret compares two secrets in constant time.
func EqualSecret(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
