// Package memory is an in-process store used for local development and tests.
// It keeps the same contracts as the Postgres repositories, including the
// cascades the schema declares, but offers no transactions.
package memory

import (
	"context"
	"sync"
	"time"

	models "mockreview/internal/domain/models/review"
	"mockreview/internal/domain/repositories"
	reviewRepo "mockreview/internal/domain/repositories/review"

	"github.com/google/uuid"
)

// Options tunes store behavior.
type Options struct {
	// UniqueVotes rejects a second vote for the same (screen, voter) pair
	UniqueVotes bool
}

// Store holds every record behind one mutex.
type Store struct {
	mu   sync.RWMutex
	opts Options
	last time.Time

	clients  []models.Client
	projects []models.Project
	screens  []models.Screen
	comments []models.Comment
	votes    []models.Vote
}

// NewStore creates an empty store
func NewStore(opts Options) *Store {
	return &Store{opts: opts}
}

func (s *Store) Clients() reviewRepo.ClientRepository   { return &clientRepo{s} }
func (s *Store) Projects() reviewRepo.ProjectRepository { return &projectRepo{s} }
func (s *Store) Screens() reviewRepo.ScreenRepository   { return &screenRepo{s} }
func (s *Store) Comments() reviewRepo.CommentRepository { return &commentRepo{s} }
func (s *Store) Votes() reviewRepo.VoteRepository       { return &voteRepo{s} }

// TxManager returns a manager that runs functions directly: writes inside
// are applied one by one and stay applied if a later one fails.
func (s *Store) TxManager() repositories.TransactionManager { return passThrough{} }

type passThrough struct{}

func (passThrough) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// stamp assigns an id and a creation time strictly after the previous one,
// so ordering by created_at matches insertion order. Must hold mu.
func (s *Store) stamp(id *string, createdAt *time.Time) {
	*id = uuid.NewString()
	now := *createdAt
	if now.IsZero() {
		now = time.Now()
	}
	if !now.After(s.last) {
		now = s.last.Add(time.Microsecond)
	}
	s.last = now
	*createdAt = now
}

// deleteScreensLocked removes screens for which match is true, with their
// comments and votes. Must hold mu.
func (s *Store) deleteScreensLocked(match func(models.Screen) bool) {
	removed := make(map[string]bool)
	kept := s.screens[:0]
	for _, sc := range s.screens {
		if match(sc) {
			removed[sc.ID] = true
			continue
		}
		kept = append(kept, sc)
	}
	s.screens = kept

	comments := s.comments[:0]
	for _, c := range s.comments {
		if !removed[c.ScreenID] {
			comments = append(comments, c)
		}
	}
	s.comments = comments

	votes := s.votes[:0]
	for _, v := range s.votes {
		if !removed[v.ScreenID] {
			votes = append(votes, v)
		}
	}
	s.votes = votes
}

// deleteProjectsLocked removes matching projects and everything under them.
// Must hold mu.
func (s *Store) deleteProjectsLocked(match func(models.Project) bool) {
	removed := make(map[string]bool)
	kept := s.projects[:0]
	for _, p := range s.projects {
		if match(p) {
			removed[p.ID] = true
			continue
		}
		kept = append(kept, p)
	}
	s.projects = kept
	s.deleteScreensLocked(func(sc models.Screen) bool { return removed[sc.ProjectID] })
}
