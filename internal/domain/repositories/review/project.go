package review

import (
	"context"

	"mockreview/internal/domain/models/review"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	// Create inserts a project and fills in its generated ID
	Create(ctx context.Context, project *review.Project) error

	GetByID(ctx context.Context, id string) (*review.Project, error)

	// GetByToken looks a project up by its review token (exact, case-sensitive)
	GetByToken(ctx context.Context, token string) (*review.Project, error)

	// ListByClient returns a client's projects, newest first
	ListByClient(ctx context.Context, clientID string) ([]review.Project, error)

	// Update persists name and updated_at
	Update(ctx context.Context, project *review.Project) error

	// Delete removes a project together with its screens, comments and votes
	Delete(ctx context.Context, id string) error
}
