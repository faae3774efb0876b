package httputil

import (
	"context"
	"net/http"

	"mockreview/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	operatorKey contextKey = "operator"
)

// WithOperator adds the authenticated operator's claims to the request context
func WithOperator(r *http.Request, claims *models.OperatorClaims) *http.Request {
	ctx := context.WithValue(r.Context(), operatorKey, claims)
	return r.WithContext(ctx)
}

// GetOperator retrieves operator claims from context, nil if absent
func GetOperator(r *http.Request) *models.OperatorClaims {
	claims, _ := r.Context().Value(operatorKey).(*models.OperatorClaims)
	return claims
}
