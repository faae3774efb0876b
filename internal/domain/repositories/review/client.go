package review

import (
	"context"

	"mockreview/internal/domain/models/review"
)

// ClientRepository defines data access operations for clients
type ClientRepository interface {
	// Create inserts a client and fills in its generated ID
	Create(ctx context.Context, client *review.Client) error

	GetByID(ctx context.Context, id string) (*review.Client, error)

	// GetByToken looks a client up by its portal token (exact, case-sensitive)
	GetByToken(ctx context.Context, token string) (*review.Client, error)

	// List returns all clients ordered by name
	List(ctx context.Context) ([]review.Client, error)

	// Delete removes a client; its projects go with it
	Delete(ctx context.Context, id string) error
}
