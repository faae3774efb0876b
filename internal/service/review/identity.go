package review

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mockreview/internal/config"
	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
	reviewSvc "mockreview/internal/domain/services/review"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type parkedAction struct {
	action   reviewSvc.PendingAction
	parkedAt time.Time
}

// identityResolver implements the IdentityResolver interface. Parked
// actions live in process memory and expire after ttl.
type identityResolver struct {
	mu      sync.Mutex
	pending map[string]parkedAction
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewIdentityResolver creates a new identity resolver
func NewIdentityResolver(logger *slog.Logger) reviewSvc.IdentityResolver {
	return newIdentityResolver(config.PendingActionTTL, time.Now, logger)
}

func newIdentityResolver(ttl time.Duration, now func() time.Time, logger *slog.Logger) *identityResolver {
	return &identityResolver{
		pending: make(map[string]parkedAction),
		ttl:     ttl,
		now:     now,
		logger:  logger,
	}
}

// ResolveOrPrompt runs action with the stored name, or parks it and asks
// for one.
func (r *identityResolver) ResolveOrPrompt(ctx context.Context, store reviewSvc.NameStore, action reviewSvc.PendingAction) (any, error) {
	name, ok, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		return action(ctx, name)
	}

	promptID := uuid.NewString()
	r.mu.Lock()
	r.expireLocked()
	r.pending[promptID] = parkedAction{action: action, parkedAt: r.now()}
	r.mu.Unlock()

	r.logger.Debug("name prompt issued", "prompt_id", promptID)
	return nil, &domain.NamePromptError{PromptID: promptID}
}

// Confirm validates and stores the name, then runs the parked action once.
// The action is removed only after the name is saved and before it runs,
// so a repeated confirm cannot replay it.
func (r *identityResolver) Confirm(ctx context.Context, store reviewSvc.NameStore, promptID, rawName string) (models.DisplayName, any, error) {
	name, err := models.NewDisplayName(rawName)
	if err != nil {
		return "", nil, invalid(fmt.Errorf("name: %w", err))
	}
	if err := validation.Validate(string(name), validation.RuneLength(1, config.MaxDisplayNameLength)); err != nil {
		return "", nil, invalid(fmt.Errorf("name: %w", err))
	}

	if promptID != "" {
		r.mu.Lock()
		r.expireLocked()
		_, ok := r.pending[promptID]
		r.mu.Unlock()
		if !ok {
			return "", nil, fmt.Errorf("prompt %s: %w", promptID, domain.ErrNotFound)
		}
	}

	// A failed save leaves the action parked so the prompt can be retried
	if err := store.Save(ctx, name); err != nil {
		return "", nil, err
	}
	r.logger.Info("reviewer name set", "name", name)

	var parked parkedAction
	if promptID != "" {
		r.mu.Lock()
		p, ok := r.pending[promptID]
		delete(r.pending, promptID)
		r.mu.Unlock()
		if !ok {
			return "", nil, fmt.Errorf("prompt %s: %w", promptID, domain.ErrNotFound)
		}
		parked = p
	}

	if parked.action == nil {
		return name, nil, nil
	}
	result, err := parked.action(ctx, name)
	return name, result, err
}

// Abandon discards a parked action; the store is not touched
func (r *identityResolver) Abandon(promptID string) {
	r.mu.Lock()
	delete(r.pending, promptID)
	r.mu.Unlock()
}

// expireLocked drops actions older than ttl. Must hold mu.
func (r *identityResolver) expireLocked() {
	cutoff := r.now().Add(-r.ttl)
	for id, p := range r.pending {
		if p.parkedAt.Before(cutoff) {
			delete(r.pending, id)
		}
	}
}

// MemoryNameStore keeps a name in memory. Useful for tools and tests.
type MemoryNameStore struct {
	mu   sync.Mutex
	name models.DisplayName
}

func (m *MemoryNameStore) Load(context.Context) (models.DisplayName, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name, m.name != "", nil
}

func (m *MemoryNameStore) Save(_ context.Context, name models.DisplayName) error {
	m.mu.Lock()
	m.name = name
	m.mu.Unlock()
	return nil
}
