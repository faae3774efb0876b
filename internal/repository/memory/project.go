package memory

import (
	"context"
	"fmt"
	"slices"

	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
)

type projectRepo struct{ s *Store }

func (r *projectRepo) Create(_ context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !slices.ContainsFunc(r.s.clients, func(c models.Client) bool { return c.ID == project.ClientID }) {
		return fmt.Errorf("client %s: %w", project.ClientID, domain.ErrNotFound)
	}
	for _, p := range r.s.projects {
		if p.Token == project.Token {
			return &domain.ConflictError{Message: "project token already exists", ResourceType: "project", ResourceID: p.ID}
		}
	}
	r.s.stamp(&project.ID, &project.CreatedAt)
	if project.UpdatedAt.IsZero() {
		project.UpdatedAt = project.CreatedAt
	}
	r.s.projects = append(r.s.projects, *project)
	return nil
}

func (r *projectRepo) GetByID(_ context.Context, id string) (*models.Project, error) {
	return r.find(id, func(p models.Project) bool { return p.ID == id })
}

func (r *projectRepo) GetByToken(_ context.Context, token string) (*models.Project, error) {
	return r.find(token, func(p models.Project) bool { return p.Token == token })
}

func (r *projectRepo) find(key string, match func(models.Project) bool) (*models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.projects {
		if match(p) {
			out := p
			return &out, nil
		}
	}
	return nil, fmt.Errorf("project %s: %w", key, domain.ErrNotFound)
}

func (r *projectRepo) ListByClient(_ context.Context, clientID string) ([]models.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Project{}
	for _, p := range r.s.projects {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Project) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r *projectRepo) Update(_ context.Context, project *models.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.projects {
		if r.s.projects[i].ID == project.ID {
			r.s.projects[i].Name = project.Name
			r.s.projects[i].UpdatedAt = project.UpdatedAt
			return nil
		}
	}
	return fmt.Errorf("project %s: %w", project.ID, domain.ErrNotFound)
}

func (r *projectRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !slices.ContainsFunc(r.s.projects, func(p models.Project) bool { return p.ID == id }) {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	r.s.deleteProjectsLocked(func(p models.Project) bool { return p.ID == id })
	return nil
}
