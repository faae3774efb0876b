package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"mockreview/internal/domain"
	"mockreview/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// SupabaseJWTVerifier accepts Supabase Auth access tokens for an allow-list
// of operator emails, using the project's JWKS.
type SupabaseJWTVerifier struct {
	jwks   keyfunc.Keyfunc
	emails []string
	logger *slog.Logger
}

// NewJWTVerifier fetches public keys from the JWKS endpoint. The keys are
// cached and refreshed by keyfunc. An empty allow-list admits any
// authenticated user of the Supabase project.
func NewJWTVerifier(jwksURL string, operatorEmails []string, logger *slog.Logger) (TokenVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(context.Background(), []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL, "operators", len(operatorEmails))

	return newJWTVerifier(jwks, operatorEmails, logger), nil
}

func newJWTVerifier(jwks keyfunc.Keyfunc, operatorEmails []string, logger *slog.Logger) *SupabaseJWTVerifier {
	emails := make([]string, 0, len(operatorEmails))
	for _, e := range operatorEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			emails = append(emails, e)
		}
	}
	return &SupabaseJWTVerifier{jwks: jwks, emails: emails, logger: logger}
}

// VerifyToken validates signature, expiry, algorithm, role and email.
func (v *SupabaseJWTVerifier) VerifyToken(tokenString string) (*models.OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.OperatorClaims{}, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
	)
	if err != nil || !token.Valid {
		v.logger.Debug("supabase token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.OperatorClaims)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}

	// Reject anonymous tokens
	if claims.Role != "authenticated" {
		v.logger.Warn("token has invalid role", "role", claims.Role, "user_id", claims.Subject)
		return nil, domain.ErrUnauthorized
	}

	if len(v.emails) > 0 && !slices.Contains(v.emails, strings.ToLower(claims.Email)) {
		v.logger.Warn("user is not an operator", "user_id", claims.Subject, "email", claims.Email)
		return nil, fmt.Errorf("%s: %w", claims.Email, domain.ErrForbidden)
	}

	return claims, nil
}

// Close is a no-op; keyfunc manages its own refresh goroutine lifetime
func (v *SupabaseJWTVerifier) Close() error {
	v.logger.Info("JWT verifier closed")
	return nil
}
