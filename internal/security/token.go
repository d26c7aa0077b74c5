package security

import (
	"crypto/rand"
	"encoding/base64"
)

// NewSessionToken returns 256 bits of randomness, base64url without padding.
func NewSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
