// Package auth verifies the bearer credential a connection presents during
// its handshake and extracts the stable user identity from it.
package auth

import (
	"errors"
	"strings"
)

var (
	// ErrMissingCredential means the handshake carried no credential at all.
	ErrMissingCredential = errors.New("missing credential")
	// ErrMalformedCredential means the credential was present but not in
	// "Bearer <token>" form.
	ErrMalformedCredential = errors.New("malformed credential")
	// ErrInvalidCredential means the token failed verification
	// (bad signature, expired, unparsable).
	ErrInvalidCredential = errors.New("invalid credential")
)

const bearerScheme = "Bearer "

// Verifier validates a raw token and returns the user identity it asserts.
type Verifier interface {
	Verify(token string) (string, error)
}

// ParseBearer extracts the token from an Authorization header value.
// An empty value yields ErrMissingCredential; a value that does not use
// the Bearer scheme (or carries an empty token) yields ErrMalformedCredential.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingCredential
	}
	if !strings.HasPrefix(header, bearerScheme) {
		return "", ErrMalformedCredential
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerScheme))
	if token == "" {
		return "", ErrMalformedCredential
	}
	return token, nil
}
