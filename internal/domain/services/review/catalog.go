package review

import (
	"context"

	"mockreview/internal/domain/models/review"
)

// CreateClientRequest represents a request to create a client
type CreateClientRequest struct {
	Name string `json:"name"`
}

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
}

// UpdateProjectRequest represents a request to rename a project
type UpdateProjectRequest struct {
	Name string `json:"name"`
}

// CatalogService is the operator's client and project administration
type CatalogService interface {
	CreateClient(ctx context.Context, req *CreateClientRequest) (*review.Client, error)
	GetClient(ctx context.Context, id string) (*review.Client, error)
	ListClients(ctx context.Context) ([]review.Client, error)
	DeleteClient(ctx context.Context, id string) error

	CreateProject(ctx context.Context, req *CreateProjectRequest) (*review.Project, error)
	GetProject(ctx context.Context, id string) (*review.Project, error)
	ListProjects(ctx context.Context, clientID string) ([]review.Project, error)
	UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*review.Project, error)
	DeleteProject(ctx context.Context, id string) error

	// ProjectDetail returns the project with its screens and vote summary
	ProjectDetail(ctx context.Context, id string) (*review.ProjectDetail, error)
}
