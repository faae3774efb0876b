package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mockreview/internal/domain"
	"mockreview/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionIssuer = "mockreview"
	operatorRole  = "operator"
	operatorID    = "operator"
)

// SessionToken is a signed operator session and its expiry
type SessionToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PasswordSessions guards the operator area with a single bcrypt-hashed
// password and issues HS256 session tokens on success.
type PasswordSessions struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

// NewPasswordSessions requires both a bcrypt hash and a signing secret
func NewPasswordSessions(passwordHash, secret string, ttl time.Duration, logger *slog.Logger) (*PasswordSessions, error) {
	if passwordHash == "" {
		return nil, errors.New("admin password hash cannot be empty")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("invalid admin password hash: %w", err)
	}
	if len(secret) < 32 {
		return nil, errors.New("session secret must be at least 32 bytes")
	}
	return &PasswordSessions{
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          ttl,
		now:          time.Now,
		logger:       logger,
	}, nil
}

// Login checks the password and returns a fresh session token
func (p *PasswordSessions) Login(password string) (*SessionToken, error) {
	if err := bcrypt.CompareHashAndPassword(p.passwordHash, []byte(password)); err != nil {
		p.logger.Warn("operator login failed")
		return nil, &domain.UnauthorizedError{Message: "invalid password"}
	}

	now := p.now().UTC()
	exp := now.Add(p.ttl)
	claims := models.OperatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   operatorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: operatorRole,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	p.logger.Info("operator logged in", "expires_at", exp)
	return &SessionToken{Token: signed, ExpiresAt: exp}, nil
}

// VerifyToken accepts only HS256 tokens this issuer signed
func (p *PasswordSessions) VerifyToken(tokenString string) (*models.OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.OperatorClaims{},
		func(*jwt.Token) (interface{}, error) { return p.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.OperatorClaims)
	if !ok || claims.Role != operatorRole {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func (p *PasswordSessions) Close() error { return nil }

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ChainVerifier accepts a token if any verifier does. A forbidden verdict
// stops the chain.
type ChainVerifier []TokenVerifier

func (c ChainVerifier) VerifyToken(tokenString string) (*models.OperatorClaims, error) {
	for _, v := range c {
		claims, err := v.VerifyToken(tokenString)
		if err == nil {
			return claims, nil
		}
		if errors.Is(err, domain.ErrForbidden) {
			return nil, err
		}
	}
	return nil, domain.ErrUnauthorized
}

func (c ChainVerifier) Close() error {
	var errs []error
	for _, v := range c {
		errs = append(errs, v.Close())
	}
	return errors.Join(errs...)
}
