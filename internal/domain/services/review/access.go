package review

import (
	"context"

	"mockreview/internal/domain/models/review"
)

// AccessGateway admits token holders. Every public operation resolves its
// target through here so a token never reaches outside its project.
type AccessGateway interface {
	// OpenProject resolves a project token into a review session
	OpenProject(ctx context.Context, token string) (*review.ReviewSession, error)

	// OpenClient resolves a client token into the portal listing
	OpenClient(ctx context.Context, token string) (*review.ClientPortal, error)

	// AdmitScreen returns the screen if it belongs to the token's project
	AdmitScreen(ctx context.Context, token, screenID string) (*review.Project, *review.Screen, error)

	// AdmitComment returns the comment if its screen belongs to the token's project
	AdmitComment(ctx context.Context, token, commentID string) (*review.Project, *review.Comment, error)

	// AdmitClientProject returns the project if it belongs to the client token
	AdmitClientProject(ctx context.Context, clientToken, projectID string) (*review.Project, error)
}
