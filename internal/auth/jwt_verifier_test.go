package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"mockreview/internal/domain"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rsaJWKS(t *testing.T, key *rsa.PrivateKey, kid string) keyfunc.Keyfunc {
	t.Helper()
	enc := base64.RawURLEncoding
	set := map[string]any{
		"keys": []map[string]string{{
			"kty": "RSA",
			"kid": kid,
			"alg": "RS256",
			"use": "sig",
			"n":   enc.EncodeToString(key.N.Bytes()),
			"e":   enc.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	}
	raw, err := json.Marshal(set)
	require.NoError(t, err)
	k, err := keyfunc.NewJWKSetJSON(raw)
	require.NoError(t, err)
	return k
}

func signRS256(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestSupabaseJWTVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	verifier := newJWTVerifier(rsaJWKS(t, key, "k1"), []string{" Ops@Acme.test "}, testLogger())

	claimsFor := func(role, email string) jwt.MapClaims {
		return jwt.MapClaims{
			"sub":   "user-1",
			"role":  role,
			"email": email,
			"exp":   time.Now().Add(time.Hour).Unix(),
		}
	}

	claims, err := verifier.VerifyToken(signRS256(t, key, "k1", claimsFor("authenticated", "ops@acme.test")))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.OperatorID())

	_, err = verifier.VerifyToken(signRS256(t, key, "k1", claimsFor("anon", "ops@acme.test")))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = verifier.VerifyToken(signRS256(t, key, "k1", claimsFor("authenticated", "intern@acme.test")))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	_, err = verifier.VerifyToken(signRS256(t, other, "k1", claimsFor("authenticated", "ops@acme.test")))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSupabaseJWTVerifierRequiresURL(t *testing.T) {
	_, err := NewJWTVerifier("", nil, testLogger())
	assert.Error(t, err)
}
