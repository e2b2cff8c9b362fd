package auth

import (
	"errors"
	"testing"
	"time"
)

func TestParseBearer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		token   string
		wantErr error
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"empty header", "", "", ErrMissingCredential},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", ErrMalformedCredential},
		{"no scheme", "abc.def.ghi", "", ErrMalformedCredential},
		{"scheme only", "Bearer ", "", ErrMalformedCredential},
		{"lowercase scheme", "bearer abc", "", ErrMalformedCredential},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseBearer(tc.header)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("ParseBearer(%q) error = %v, want %v", tc.header, err, tc.wantErr)
			}
			if got != tc.token {
				t.Fatalf("ParseBearer(%q) token = %q, want %q", tc.header, got, tc.token)
			}
		})
	}
}

func TestGenerateAndVerify_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	userID := "user-123"

	tok, err := GenerateToken(userID, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	gotUserID, err := NewJWTVerifier(secret).Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if gotUserID != userID {
		t.Fatalf("userID mismatch: got %q want %q", gotUserID, userID)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken("u1", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = NewJWTVerifier(secret).Verify(tok)
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential for expired token, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = NewJWTVerifier([]byte("wrong-secret")).Verify(tok)
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential for bad signature, got %v", err)
	}
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := NewJWTVerifier([]byte("k")).Verify("not.a.jwt")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential for malformed token, got %v", err)
	}
}

func TestVerify_EmptyUserID(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := GenerateToken("", secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = NewJWTVerifier(secret).Verify(tok)
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential for empty identity, got %v", err)
	}
}
