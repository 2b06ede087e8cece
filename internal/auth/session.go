package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
)

// SessionTokenPrefix marks session cookie values.
const SessionTokenPrefix = "sess_"

// sessionTokenBytes is the entropy of a session token (256 bits).
const sessionTokenBytes = 32

var (
	// ErrInvalidToken indicates a malformed session token.
	ErrInvalidToken = errors.New("invalid session token format")

	tokenFormatRegex = regexp.MustCompile(`^sess_[A-Za-z0-9_-]{43}$`)
)

// SessionToken is a freshly issued session token.
type SessionToken struct {
	Plaintext string // cookie value, shown to the client only
	Hash      string // storage key
}

// GenerateSessionToken creates a random opaque session token.
func GenerateSessionToken() (*SessionToken, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	plaintext := SessionTokenPrefix + base64.RawURLEncoding.EncodeToString(b)

	return &SessionToken{
		Plaintext: plaintext,
		Hash:      QuickHash(plaintext),
	}, nil
}

// SessionKey validates a cookie token and returns its storage key.
func SessionKey(token string) (string, error) {
	if !tokenFormatRegex.MatchString(token) {
		return "", ErrInvalidToken
	}
	return QuickHash(token), nil
}
