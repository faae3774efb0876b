package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
)

type clientRepo struct{ s *Store }

func (r *clientRepo) Create(_ context.Context, client *models.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.clients {
		if c.Token == client.Token {
			return &domain.ConflictError{Message: "client token already exists", ResourceType: "client", ResourceID: c.ID}
		}
	}
	r.s.stamp(&client.ID, &client.CreatedAt)
	r.s.clients = append(r.s.clients, *client)
	return nil
}

func (r *clientRepo) GetByID(_ context.Context, id string) (*models.Client, error) {
	return r.find(id, func(c models.Client) bool { return c.ID == id })
}

func (r *clientRepo) GetByToken(_ context.Context, token string) (*models.Client, error) {
	return r.find(token, func(c models.Client) bool { return c.Token == token })
}

func (r *clientRepo) find(key string, match func(models.Client) bool) (*models.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.clients {
		if match(c) {
			out := c
			return &out, nil
		}
	}
	return nil, fmt.Errorf("client %s: %w", key, domain.ErrNotFound)
}

func (r *clientRepo) List(_ context.Context) ([]models.Client, error) {
	r.s.mu.RLock()
	out := slices.Clone(r.s.clients)
	r.s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b models.Client) int { return cmp.Compare(a.Name, b.Name) })
	if out == nil {
		out = []models.Client{}
	}
	return out, nil
}

func (r *clientRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	idx := slices.IndexFunc(r.s.clients, func(c models.Client) bool { return c.ID == id })
	if idx < 0 {
		return fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	r.s.clients = slices.Delete(r.s.clients, idx, idx+1)
	r.s.deleteProjectsLocked(func(p models.Project) bool { return p.ClientID == id })
	return nil
}
