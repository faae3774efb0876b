package memory

import (
	"context"
	"fmt"
	"slices"

	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
)

type voteRepo struct{ s *Store }

func (r *voteRepo) Find(_ context.Context, screenID, voterName string) (*models.Vote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, v := range r.s.votes {
		if v.ScreenID == screenID && v.VoterName == voterName {
			out := v
			return &out, nil
		}
	}
	return nil, fmt.Errorf("vote %s/%s: %w", screenID, voterName, domain.ErrNotFound)
}

func (r *voteRepo) Create(_ context.Context, vote *models.Vote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if !slices.ContainsFunc(r.s.screens, func(sc models.Screen) bool { return sc.ID == vote.ScreenID }) {
		return fmt.Errorf("screen %s: %w", vote.ScreenID, domain.ErrNotFound)
	}
	if r.s.opts.UniqueVotes {
		for _, v := range r.s.votes {
			if v.ScreenID == vote.ScreenID && v.VoterName == vote.VoterName {
				return &domain.ConflictError{Message: "vote already exists", ResourceType: "vote", ResourceID: v.ID}
			}
		}
	}
	r.s.stamp(&vote.ID, &vote.CreatedAt)
	r.s.votes = append(r.s.votes, *vote)
	return nil
}

func (r *voteRepo) DeleteByScreenAndVoter(_ context.Context, screenID, voterName string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	before := len(r.s.votes)
	r.s.votes = slices.DeleteFunc(r.s.votes, func(v models.Vote) bool {
		return v.ScreenID == screenID && v.VoterName == voterName
	})
	return int64(before - len(r.s.votes)), nil
}

func (r *voteRepo) ListByScreens(_ context.Context, screenIDs []string) ([]models.Vote, error) {
	want := make(map[string]bool, len(screenIDs))
	for _, id := range screenIDs {
		want[id] = true
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []models.Vote{}
	for _, v := range r.s.votes {
		if want[v.ScreenID] {
			out = append(out, v)
		}
	}
	return out, nil
}
