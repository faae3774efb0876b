package review

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"mockreview/internal/config"
)

// newToken returns an unguessable URL-safe admission token.
func newToken() (string, error) {
	buf := make([]byte, config.TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
