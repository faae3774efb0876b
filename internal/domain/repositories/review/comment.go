package review

import (
	"context"

	"mockreview/internal/domain/models/review"
)

// CommentRepository defines data access operations for comments
type CommentRepository interface {
	// Create inserts a comment and fills in its generated ID
	Create(ctx context.Context, comment *review.Comment) error

	GetByID(ctx context.Context, id string) (*review.Comment, error)

	// ListByScreen returns all comments on a screen in ascending created_at
	ListByScreen(ctx context.Context, screenID string) ([]review.Comment, error)

	// ListReplies returns the direct replies of a comment in ascending created_at
	ListReplies(ctx context.Context, parentID string) ([]review.Comment, error)

	// UpdateContent writes only the content column
	UpdateContent(ctx context.Context, id, content string) error

	// SetResolved writes only the is_resolved column
	SetResolved(ctx context.Context, id string, resolved bool) error

	// Delete removes exactly one comment record
	Delete(ctx context.Context, id string) error
}
