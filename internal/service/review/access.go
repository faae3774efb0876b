package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
	reviewRepo "mockreview/internal/domain/repositories/review"
	reviewSvc "mockreview/internal/domain/services/review"
)

// accessGateway implements the AccessGateway interface
type accessGateway struct {
	clientRepo  reviewRepo.ClientRepository
	projectRepo reviewRepo.ProjectRepository
	screenRepo  reviewRepo.ScreenRepository
	commentRepo reviewRepo.CommentRepository
	voteRepo    reviewRepo.VoteRepository
	logger      *slog.Logger
}

// NewAccessGateway creates a new access gateway
func NewAccessGateway(
	clientRepo reviewRepo.ClientRepository,
	projectRepo reviewRepo.ProjectRepository,
	screenRepo reviewRepo.ScreenRepository,
	commentRepo reviewRepo.CommentRepository,
	voteRepo reviewRepo.VoteRepository,
	logger *slog.Logger,
) reviewSvc.AccessGateway {
	return &accessGateway{
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		screenRepo:  screenRepo,
		commentRepo: commentRepo,
		voteRepo:    voteRepo,
		logger:      logger,
	}
}

var errInvalidLink = fmt.Errorf("link: %w", domain.ErrNotFound)

func (g *accessGateway) project(ctx context.Context, token string) (*models.Project, error) {
	if token == "" {
		return nil, errInvalidLink
	}
	project, err := g.projectRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errInvalidLink
		}
		g.logger.Warn("resolve project token failed", "error", err)
		return nil, err
	}
	return project, nil
}

// OpenProject returns the project, its owner, sorted screens and all votes.
// Any failure yields no session at all.
func (g *accessGateway) OpenProject(ctx context.Context, token string) (*models.ReviewSession, error) {
	project, err := g.project(ctx, token)
	if err != nil {
		return nil, err
	}

	session := &models.ReviewSession{Project: *project}

	client, err := g.clientRepo.GetByID(ctx, project.ClientID)
	switch {
	case err == nil:
		session.Client = client
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	screens, err := g.screenRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	models.SortScreens(screens)
	session.Screens = screens

	ids := make([]string, 0, len(screens))
	for _, sc := range screens {
		ids = append(ids, sc.ID)
	}
	votes, err := g.voteRepo.ListByScreens(ctx, ids)
	if err != nil {
		return nil, err
	}
	session.Votes = votes

	g.logger.Debug("project opened", "project_id", project.ID, "screens", len(screens))
	return session, nil
}

// OpenClient returns the client and its projects, newest first
func (g *accessGateway) OpenClient(ctx context.Context, token string) (*models.ClientPortal, error) {
	if token == "" {
		return nil, errInvalidLink
	}
	client, err := g.clientRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errInvalidLink
		}
		g.logger.Warn("resolve client token failed", "error", err)
		return nil, err
	}

	projects, err := g.projectRepo.ListByClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	return &models.ClientPortal{Client: *client, Projects: projects}, nil
}

func (g *accessGateway) AdmitScreen(ctx context.Context, token, screenID string) (*models.Project, *models.Screen, error) {
	project, err := g.project(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	screen, err := g.screenRepo.GetByID(ctx, screenID)
	if err != nil {
		return nil, nil, err
	}
	if screen.ProjectID != project.ID {
		return nil, nil, fmt.Errorf("screen %s: %w", screenID, domain.ErrNotFound)
	}
	return project, screen, nil
}

func (g *accessGateway) AdmitComment(ctx context.Context, token, commentID string) (*models.Project, *models.Comment, error) {
	project, err := g.project(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	comment, err := g.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, nil, err
	}
	screen, err := g.screenRepo.GetByID(ctx, comment.ScreenID)
	if err != nil {
		return nil, nil, err
	}
	if screen.ProjectID != project.ID {
		return nil, nil, fmt.Errorf("comment %s: %w", commentID, domain.ErrNotFound)
	}
	return project, comment, nil
}

func (g *accessGateway) AdmitClientProject(ctx context.Context, clientToken, projectID string) (*models.Project, error) {
	portal, err := g.OpenClient(ctx, clientToken)
	if err != nil {
		return nil, err
	}
	for _, p := range portal.Projects {
		if p.ID == projectID {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
}
