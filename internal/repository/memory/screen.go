package memory

import (
	"context"
	"fmt"
	"slices"

	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
)

type screenRepo struct{ s *Store }

func (r *screenRepo) Create(_ context.Context, screen *models.Screen) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !slices.ContainsFunc(r.s.projects, func(p models.Project) bool { return p.ID == screen.ProjectID }) {
		return fmt.Errorf("project %s: %w", screen.ProjectID, domain.ErrNotFound)
	}
	r.s.stamp(&screen.ID, &screen.CreatedAt)
	r.s.screens = append(r.s.screens, *screen)
	return nil
}

func (r *screenRepo) GetByID(_ context.Context, id string) (*models.Screen, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if i := r.index(id); i >= 0 {
		out := r.s.screens[i]
		return &out, nil
	}
	return nil, fmt.Errorf("screen %s: %w", id, domain.ErrNotFound)
}

// index must be called with mu held
func (r *screenRepo) index(id string) int {
	return slices.IndexFunc(r.s.screens, func(sc models.Screen) bool { return sc.ID == id })
}

func (r *screenRepo) ListByProject(_ context.Context, projectID string) ([]models.Screen, error) {
	r.s.mu.RLock()
	out := []models.Screen{}
	for _, sc := range r.s.screens {
		if sc.ProjectID == projectID {
			out = append(out, sc)
		}
	}
	r.s.mu.RUnlock()

	models.SortScreens(out)
	return out, nil
}

func (r *screenRepo) UpdateName(_ context.Context, id, name string) error {
	return r.mutate(id, func(sc *models.Screen) { sc.Name = name })
}

func (r *screenRepo) UpdateImage(_ context.Context, id string, device models.Device, url *string) error {
	if !device.Valid() {
		return fmt.Errorf("%w: unknown device %q", domain.ErrValidation, device)
	}
	return r.mutate(id, func(sc *models.Screen) { sc.SetImage(device, url) })
}

func (r *screenRepo) UpdateLabel(_ context.Context, id string, device models.Device, label *string) error {
	if !device.Valid() {
		return fmt.Errorf("%w: unknown device %q", domain.ErrValidation, device)
	}
	return r.mutate(id, func(sc *models.Screen) { sc.SetLabel(device, label) })
}

func (r *screenRepo) UpdateSortOrder(_ context.Context, id string, sortOrder int) error {
	return r.mutate(id, func(sc *models.Screen) { sc.SortOrder = sortOrder })
}

func (r *screenRepo) mutate(id string, apply func(*models.Screen)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("screen %s: %w", id, domain.ErrNotFound)
	}
	apply(&r.s.screens[i])
	return nil
}

func (r *screenRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.index(id) < 0 {
		return fmt.Errorf("screen %s: %w", id, domain.ErrNotFound)
	}
	r.s.deleteScreensLocked(func(sc models.Screen) bool { return sc.ID == id })
	return nil
}
