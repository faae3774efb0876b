package review

import (
	"context"

	"mockreview/internal/domain/models/review"
)

// PendingDraft is a placed but unsaved root comment.
type PendingDraft struct {
	ScreenID string        `json:"screen_id"`
	Device   review.Device `json:"device_type"`
	X        float64       `json:"x_position"`
	Y        float64       `json:"y_position"`
}

// AnnotationService manages threaded, positioned comments
type AnnotationService interface {
	// Place validates a click position and returns an unsaved draft
	Place(screenID string, device review.Device, x, y float64) (*PendingDraft, error)

	// Submit persists a draft as a root comment
	Submit(ctx context.Context, draft *PendingDraft, author review.DisplayName, content string) (*review.Comment, error)

	// Reply attaches a reply to a root comment, inheriting its position and device
	Reply(ctx context.Context, parentID string, author review.DisplayName, content string) (*review.Comment, error)

	// ToggleResolved flips the resolution flag of a root comment
	ToggleResolved(ctx context.Context, id string) (*review.Comment, error)

	// Edit replaces a comment's content and nothing else
	Edit(ctx context.Context, id, content string) (*review.Comment, error)

	// Delete removes a comment and, for a root, every reply to it
	Delete(ctx context.Context, id string) error

	GetComment(ctx context.Context, id string) (*review.Comment, error)

	// ListComments returns every comment on a screen in creation order
	ListComments(ctx context.Context, screenID string) ([]review.Comment, error)

	// ListForDevice returns the numbered threads shown for one device
	ListForDevice(ctx context.Context, screenID string, device review.Device) (review.Threads, error)
}
