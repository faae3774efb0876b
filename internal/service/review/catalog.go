package review

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"mockreview/internal/config"
	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
	"mockreview/internal/domain/repositories"
	reviewRepo "mockreview/internal/domain/repositories/review"
	reviewSvc "mockreview/internal/domain/services/review"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// catalogService implements the CatalogService interface
type catalogService struct {
	clientRepo  reviewRepo.ClientRepository
	projectRepo reviewRepo.ProjectRepository
	screenRepo  reviewRepo.ScreenRepository
	voteRepo    reviewRepo.VoteRepository
	blobs       repositories.BlobStore
	logger      *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	clientRepo reviewRepo.ClientRepository,
	projectRepo reviewRepo.ProjectRepository,
	screenRepo reviewRepo.ScreenRepository,
	voteRepo reviewRepo.VoteRepository,
	blobs repositories.BlobStore,
	logger *slog.Logger,
) reviewSvc.CatalogService {
	return &catalogService{
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		screenRepo:  screenRepo,
		voteRepo:    voteRepo,
		blobs:       blobs,
		logger:      logger,
	}
}

func (s *catalogService) CreateClient(ctx context.Context, req *reviewSvc.CreateClientRequest) (*models.Client, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, nameRules(config.MaxClientNameLength)...),
	)
	if err != nil {
		return nil, invalid(err)
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	client := &models.Client{
		Name:      strings.TrimSpace(req.Name),
		Token:     token,
		CreatedAt: time.Now(),
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	s.logger.Info("client created", "id", client.ID, "name", client.Name)
	return client, nil
}

func (s *catalogService) GetClient(ctx context.Context, id string) (*models.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

// ListClients returns every client ordered by name
func (s *catalogService) ListClients(ctx context.Context) ([]models.Client, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			s.logger.Warn("list clients failed", "error", err)
		}
		return nil, err
	}
	return clients, nil
}

// DeleteClient removes the client and everything under it. Images are
// deleted first, best effort.
func (s *catalogService) DeleteClient(ctx context.Context, id string) error {
	if _, err := s.clientRepo.GetByID(ctx, id); err != nil {
		return err
	}

	projects, err := s.projectRepo.ListByClient(ctx, id)
	if err != nil {
		return err
	}
	for _, p := range projects {
		s.deleteProjectBlobs(ctx, p.ID)
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("client deleted", "id", id, "projects", len(projects))
	return nil
}

func (s *catalogService) CreateProject(ctx context.Context, req *reviewSvc.CreateProjectRequest) (*models.Project, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ClientID, validation.Required),
		validation.Field(&req.Name, nameRules(config.MaxProjectNameLength)...),
	)
	if err != nil {
		return nil, invalid(err)
	}

	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	project := &models.Project{
		ClientID:  req.ClientID,
		Name:      strings.TrimSpace(req.Name),
		Token:     token,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"client_id", project.ClientID,
		"name", project.Name,
	)

	return project, nil
}

func (s *catalogService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// ListProjects returns a client's projects, newest first
func (s *catalogService) ListProjects(ctx context.Context, clientID string) ([]models.Project, error) {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.projectRepo.ListByClient(ctx, clientID)
}

func (s *catalogService) UpdateProject(ctx context.Context, id string, req *reviewSvc.UpdateProjectRequest) (*models.Project, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, nameRules(config.MaxProjectNameLength)...),
	)
	if err != nil {
		return nil, invalid(err)
	}

	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	project.Name = strings.TrimSpace(req.Name)
	project.UpdatedAt = time.Now()
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project renamed", "id", id, "name", project.Name)
	return project, nil
}

// DeleteProject removes the project's images (best effort) and then the
// project, which takes its screens, comments and votes with it.
func (s *catalogService) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.projectRepo.GetByID(ctx, id); err != nil {
		return err
	}

	s.deleteProjectBlobs(ctx, id)

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("project deleted", "id", id)
	return nil
}

func (s *catalogService) ProjectDetail(ctx context.Context, id string) (*models.ProjectDetail, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	screens, err := s.screenRepo.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	models.SortScreens(screens)

	ids := make([]string, 0, len(screens))
	for _, sc := range screens {
		ids = append(ids, sc.ID)
	}
	votes, err := s.voteRepo.ListByScreens(ctx, ids)
	if err != nil {
		return nil, err
	}

	return &models.ProjectDetail{
		Project: *project,
		Screens: screens,
		Votes:   Summarize(screens, votes),
	}, nil
}

func (s *catalogService) deleteProjectBlobs(ctx context.Context, projectID string) {
	screens, err := s.screenRepo.ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Warn("list screens for blob cleanup failed", "project_id", projectID, "error", err)
		return
	}

	var keys []string
	for _, sc := range screens {
		for _, d := range models.Devices {
			if url := sc.Image(d); url != nil {
				if key, ok := s.blobs.KeyFromURL(*url); ok {
					keys = append(keys, key)
				}
			}
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.blobs.Delete(ctx, keys...); err != nil {
		s.logger.Warn("blob delete failed", "project_id", projectID, "keys", keys, "error", err)
	}
}
