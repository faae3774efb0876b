package review

import (
	"context"

	"mockreview/internal/domain/models/review"
)

// VotingService manages per-screen likes
type VotingService interface {
	HasVoted(ctx context.Context, screenID string, voter review.DisplayName) (bool, error)

	// Toggle removes the voter's vote if present, otherwise adds one
	Toggle(ctx context.Context, screenID string, voter review.DisplayName) (*review.ToggleResult, error)

	CountFor(ctx context.Context, screenID string) (int, error)

	// VotersFor returns voter names in the order they voted
	VotersFor(ctx context.Context, screenID string) ([]string, error)

	// ListVotes returns the votes of the given screens in creation order
	ListVotes(ctx context.Context, screenIDs []string) ([]review.Vote, error)

	TotalAcrossScreens(ctx context.Context, screenIDs []string) (int, error)

	// Summary computes per-screen bars relative to the most-voted screen
	Summary(ctx context.Context, screens []review.Screen) (*review.VoteSummary, error)
}
