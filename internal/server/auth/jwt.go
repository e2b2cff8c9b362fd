package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered JWT claims plus the user identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// JWTVerifier verifies HS256-signed access tokens.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

// Verify parses and validates the token and returns the UserID claim.
// Every failure mode (bad signature, expiry, garbage input, empty identity)
// maps to ErrInvalidCredential so callers need a single check.
func (v *JWTVerifier) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if !token.Valid || claims.UserID == "" {
		return "", ErrInvalidCredential
	}

	return claims.UserID, nil
}

// GenerateToken mints an access token for userID. Token issuance belongs to
// the account service; it lives here so both sides agree on the claims
// layout and so tests can produce valid credentials.
func GenerateToken(userID string, secret []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
