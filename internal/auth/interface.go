package auth

import "mockreview/internal/domain/models"

// TokenVerifier validates operator bearer tokens. The operator middleware
// stays agnostic to whether a token came from the password login or an
// external identity provider.
type TokenVerifier interface {
	// VerifyToken returns the claims of a valid token, or an error matching
	// domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.OperatorClaims, error)

	// Close releases any resources held by the verifier
	Close() error
}
