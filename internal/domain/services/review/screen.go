package review

import (
	"context"
	"fmt"
	"io"

	"mockreview/internal/domain/models/review"
)

// Direction is the way a screen moves in a project's order.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection converts a wire value into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionUp, DirectionDown:
		return Direction(s), nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// CreateScreenRequest represents a request to create a screen
type CreateScreenRequest struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
}

// RenameScreenRequest represents a request to rename a screen
type RenameScreenRequest struct {
	Name string `json:"name"`
}

// AttachImageRequest carries an image upload for one device of a screen
type AttachImageRequest struct {
	ScreenID    string
	Device      review.Device
	Filename    string
	ContentType string
	Body        io.Reader
}

// ScreenService manages screens, their order, and their device images
type ScreenService interface {
	CreateScreen(ctx context.Context, req *CreateScreenRequest) (*review.Screen, error)
	GetScreen(ctx context.Context, id string) (*review.Screen, error)

	// ListScreens returns a project's screens sorted by sort_order
	ListScreens(ctx context.Context, projectID string) ([]review.Screen, error)

	RenameScreen(ctx context.Context, id string, req *RenameScreenRequest) (*review.Screen, error)

	// SetLabel sets or clears (nil) the caption shown for one device
	SetLabel(ctx context.Context, id string, device review.Device, label *string) (*review.Screen, error)

	// AttachImage uploads the image and returns its public URL
	AttachImage(ctx context.Context, req *AttachImageRequest) (string, error)

	// DetachImage removes the device image; blob deletion is best effort
	DetachImage(ctx context.Context, id string, device review.Device) (*review.Screen, error)

	// RemoveScreen deletes blobs (best effort) and then the screen record
	RemoveScreen(ctx context.Context, id string) error

	// ReorderScreen swaps the screen with its neighbor and returns the new order.
	// At the boundary nothing is written.
	ReorderScreen(ctx context.Context, id string, dir Direction) ([]review.Screen, error)
}
