package memory

import (
	"context"
	"fmt"
	"slices"

	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
)

type commentRepo struct{ s *Store }

func (r *commentRepo) Create(_ context.Context, comment *models.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !slices.ContainsFunc(r.s.screens, func(sc models.Screen) bool { return sc.ID == comment.ScreenID }) {
		return fmt.Errorf("screen %s: %w", comment.ScreenID, domain.ErrNotFound)
	}
	if comment.ParentID != nil && r.index(*comment.ParentID) < 0 {
		return fmt.Errorf("comment %s: %w", *comment.ParentID, domain.ErrNotFound)
	}
	r.s.stamp(&comment.ID, &comment.CreatedAt)
	r.s.comments = append(r.s.comments, *comment)
	return nil
}

// index must be called with mu held
func (r *commentRepo) index(id string) int {
	return slices.IndexFunc(r.s.comments, func(c models.Comment) bool { return c.ID == id })
}

func (r *commentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if i := r.index(id); i >= 0 {
		out := r.s.comments[i]
		return &out, nil
	}
	return nil, fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
}

func (r *commentRepo) ListByScreen(_ context.Context, screenID string) ([]models.Comment, error) {
	return r.filter(func(c models.Comment) bool { return c.ScreenID == screenID }), nil
}

func (r *commentRepo) ListReplies(_ context.Context, parentID string) ([]models.Comment, error) {
	return r.filter(func(c models.Comment) bool { return c.ParentID != nil && *c.ParentID == parentID }), nil
}

func (r *commentRepo) filter(match func(models.Comment) bool) []models.Comment {
	r.s.mu.RLock()
	out := []models.Comment{}
	for _, c := range r.s.comments {
		if match(c) {
			out = append(out, c)
		}
	}
	r.s.mu.RUnlock()

	models.SortComments(out)
	return out
}

func (r *commentRepo) UpdateContent(_ context.Context, id, content string) error {
	return r.mutate(id, func(c *models.Comment) { c.Content = content })
}

func (r *commentRepo) SetResolved(_ context.Context, id string, resolved bool) error {
	return r.mutate(id, func(c *models.Comment) { c.IsResolved = resolved })
}

func (r *commentRepo) mutate(id string, apply func(*models.Comment)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	apply(&r.s.comments[i])
	return nil
}

// Delete removes one record. Replies are left in place; the engine deletes
// them itself.
func (r *commentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("comment %s: %w", id, domain.ErrNotFound)
	}
	r.s.comments = slices.Delete(r.s.comments, i, i+1)
	return nil
}
