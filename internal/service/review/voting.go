package review

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
	reviewRepo "mockreview/internal/domain/repositories/review"
	reviewSvc "mockreview/internal/domain/services/review"
)

// votingService implements the VotingService interface
type votingService struct {
	voteRepo reviewRepo.VoteRepository
	events   reviewSvc.EventPublisher
	logger   *slog.Logger
}

// NewVotingService creates a new voting service
func NewVotingService(
	voteRepo reviewRepo.VoteRepository,
	events reviewSvc.EventPublisher,
	logger *slog.Logger,
) reviewSvc.VotingService {
	return &votingService{
		voteRepo: voteRepo,
		events:   events,
		logger:   logger,
	}
}

func (s *votingService) HasVoted(ctx context.Context, screenID string, voter models.DisplayName) (bool, error) {
	_, err := s.voteRepo.Find(ctx, screenID, string(voter))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Toggle is read-then-write with no isolation. Two toggles racing for the
// same pair may both insert unless the store rejects duplicates, in which
// case the conflict is reported as voted.
func (s *votingService) Toggle(ctx context.Context, screenID string, voter models.DisplayName) (*models.ToggleResult, error) {
	if voter == "" {
		return nil, invalid(errors.New("voter_name: cannot be empty"))
	}

	voted, err := s.HasVoted(ctx, screenID, voter)
	if err != nil {
		return nil, err
	}

	if voted {
		if _, err := s.voteRepo.DeleteByScreenAndVoter(ctx, screenID, string(voter)); err != nil {
			return nil, err
		}
		s.logger.Info("vote removed", "screen_id", screenID, "voter", voter)
		s.publish(ctx, models.EventVoteRemoved, screenID, voter)
		return &models.ToggleResult{Voted: false}, nil
	}

	vote := &models.Vote{
		ScreenID:  screenID,
		VoterName: string(voter),
		CreatedAt: time.Now(),
	}
	if err := s.voteRepo.Create(ctx, vote); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Debug("vote already present", "screen_id", screenID, "voter", voter)
			existing, findErr := s.voteRepo.Find(ctx, screenID, string(voter))
			if findErr != nil {
				return &models.ToggleResult{Voted: true}, nil
			}
			return &models.ToggleResult{Voted: true, Vote: existing}, nil
		}
		return nil, err
	}

	s.logger.Info("vote added", "screen_id", screenID, "voter", voter)
	s.publish(ctx, models.EventVoteAdded, screenID, voter)
	return &models.ToggleResult{Voted: true, Vote: vote}, nil
}

func (s *votingService) CountFor(ctx context.Context, screenID string) (int, error) {
	votes, err := s.ListVotes(ctx, []string{screenID})
	if err != nil {
		return 0, err
	}
	return len(votes), nil
}

func (s *votingService) VotersFor(ctx context.Context, screenID string) ([]string, error) {
	votes, err := s.ListVotes(ctx, []string{screenID})
	if err != nil {
		return nil, err
	}
	voters := make([]string, 0, len(votes))
	for _, v := range votes {
		voters = append(voters, v.VoterName)
	}
	return voters, nil
}

func (s *votingService) ListVotes(ctx context.Context, screenIDs []string) ([]models.Vote, error) {
	votes, err := s.voteRepo.ListByScreens(ctx, screenIDs)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			s.logger.Warn("list votes failed", "screens", len(screenIDs), "error", err)
		}
		return nil, err
	}
	return votes, nil
}

func (s *votingService) TotalAcrossScreens(ctx context.Context, screenIDs []string) (int, error) {
	votes, err := s.ListVotes(ctx, screenIDs)
	if err != nil {
		return 0, err
	}
	return len(votes), nil
}

func (s *votingService) Summary(ctx context.Context, screens []models.Screen) (*models.VoteSummary, error) {
	ids := make([]string, 0, len(screens))
	for _, sc := range screens {
		ids = append(ids, sc.ID)
	}
	votes, err := s.ListVotes(ctx, ids)
	if err != nil {
		return nil, err
	}
	summary := Summarize(screens, votes)
	return &summary, nil
}

// Summarize builds per-screen bars as a percentage of the most-voted
// screen. The denominator is floored at 1 so an all-zero project yields 0%.
func Summarize(screens []models.Screen, votes []models.Vote) models.VoteSummary {
	byScreen := make(map[string][]string, len(screens))
	for _, sc := range screens {
		byScreen[sc.ID] = []string{}
	}
	seen := make(map[string]bool)
	summary := models.VoteSummary{
		UniqueVoters: []string{},
		Screens:      make([]models.ScreenTally, 0, len(screens)),
	}

	for _, v := range votes {
		if _, ok := byScreen[v.ScreenID]; !ok {
			continue
		}
		byScreen[v.ScreenID] = append(byScreen[v.ScreenID], v.VoterName)
		if !seen[v.VoterName] {
			seen[v.VoterName] = true
			summary.UniqueVoters = append(summary.UniqueVoters, v.VoterName)
		}
	}

	maxCount := 1
	for _, sc := range screens {
		maxCount = max(maxCount, len(byScreen[sc.ID]))
	}

	for _, sc := range screens {
		voters := byScreen[sc.ID]
		summary.TotalVotes += len(voters)
		summary.Screens = append(summary.Screens, models.ScreenTally{
			ScreenID:   sc.ID,
			ScreenName: sc.Name,
			Count:      len(voters),
			Percentage: float64(len(voters)) / float64(maxCount) * 100,
			Voters:     voters,
		})
	}

	return summary
}

func (s *votingService) publish(ctx context.Context, kind models.EventType, screenID string, voter models.DisplayName) {
	if s.events == nil {
		return
	}
	event := models.Event{
		Type:       kind,
		ScreenID:   screenID,
		Actor:      string(voter),
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", "type", kind, "error", err)
	}
}
