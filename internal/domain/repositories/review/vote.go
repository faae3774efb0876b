package review

import (
	"context"

	"mockreview/internal/domain/models/review"
)

// VoteRepository defines data access operations for votes
type VoteRepository interface {
	// Find returns the vote for (screenID, voterName) or ErrNotFound
	Find(ctx context.Context, screenID, voterName string) (*review.Vote, error)

	// Create inserts a vote. Stores that enforce uniqueness return ErrConflict.
	Create(ctx context.Context, vote *review.Vote) error

	// DeleteByScreenAndVoter removes every vote matching the pair
	DeleteByScreenAndVoter(ctx context.Context, screenID, voterName string) (int64, error)

	// ListByScreens returns votes for any of the screens in ascending created_at
	ListByScreens(ctx context.Context, screenIDs []string) ([]review.Vote, error)
}
