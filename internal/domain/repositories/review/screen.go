package review

import (
	"context"

	"mockreview/internal/domain/models/review"
)

// ScreenRepository defines data access operations for screens
type ScreenRepository interface {
	// Create inserts a screen and fills in its generated ID
	Create(ctx context.Context, screen *review.Screen) error

	GetByID(ctx context.Context, id string) (*review.Screen, error)

	// ListByProject returns screens ordered by sort_order, created_at, id
	ListByProject(ctx context.Context, projectID string) ([]review.Screen, error)

	// UpdateName writes only the name column
	UpdateName(ctx context.Context, id, name string) error

	// UpdateImage writes only the device's image column; nil clears it
	UpdateImage(ctx context.Context, id string, device review.Device, url *string) error

	// UpdateLabel writes only the device's label column; nil clears it
	UpdateLabel(ctx context.Context, id string, device review.Device, label *string) error

	// UpdateSortOrder writes a single screen's position
	UpdateSortOrder(ctx context.Context, id string, sortOrder int) error

	// Delete removes a screen together with its comments and votes
	Delete(ctx context.Context, id string) error
}
