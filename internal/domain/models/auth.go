package models

import "github.com/golang-jwt/jwt/v5"

// OperatorClaims are the claims carried by an operator's bearer token,
// whether minted by the password login or by Supabase Auth.
type OperatorClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, exp, iat, etc.)
	Email                string `json:"email,omitempty"`
	Role                 string `json:"role"`
}

// OperatorID returns the subject claim
func (c *OperatorClaims) OperatorID() string {
	return c.Subject
}
