package review

import (
	"context"

	"mockreview/internal/domain/models/review"
)

// NameStore is a reviewer's durable, per-browser name slot.
type NameStore interface {
	// Load returns the stored name; ok is false when none is stored
	Load(ctx context.Context) (name review.DisplayName, ok bool, err error)
	Save(ctx context.Context, name review.DisplayName) error
}

// PendingAction is work that needs a reviewer name to run.
type PendingAction func(ctx context.Context, name review.DisplayName) (any, error)

// IdentityResolver supplies reviewer names to actions, prompting when none is known.
type IdentityResolver interface {
	// ResolveOrPrompt runs action with the stored name. Without one, it parks
	// the action and returns a *domain.NamePromptError.
	ResolveOrPrompt(ctx context.Context, store NameStore, action PendingAction) (any, error)

	// Confirm stores rawName and replays the parked action exactly once.
	// An empty promptID only stores the name.
	Confirm(ctx context.Context, store NameStore, promptID, rawName string) (review.DisplayName, any, error)

	// Abandon drops a parked action without running it
	Abandon(promptID string)
}
