package review

import (
	"context"
	"errors"
	"fmt"
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

// annotationService implements the AnnotationService interface
type annotationService struct {
	screenRepo  reviewRepo.ScreenRepository
	commentRepo reviewRepo.CommentRepository
	txManager   repositories.TransactionManager
	events      reviewSvc.EventPublisher
	logger      *slog.Logger
}

// NewAnnotationService creates a new annotation service
func NewAnnotationService(
	screenRepo reviewRepo.ScreenRepository,
	commentRepo reviewRepo.CommentRepository,
	txManager repositories.TransactionManager,
	events reviewSvc.EventPublisher,
	logger *slog.Logger,
) reviewSvc.AnnotationService {
	return &annotationService{
		screenRepo:  screenRepo,
		commentRepo: commentRepo,
		txManager:   txManager,
		events:      events,
		logger:      logger,
	}
}

// Place validates a click position; nothing is stored
func (s *annotationService) Place(screenID string, device models.Device, x, y float64) (*reviewSvc.PendingDraft, error) {
	draft := &reviewSvc.PendingDraft{ScreenID: screenID, Device: device, X: x, Y: y}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func validateDraft(draft *reviewSvc.PendingDraft) error {
	err := validation.ValidateStruct(draft,
		validation.Field(&draft.ScreenID, validation.Required),
		validation.Field(&draft.Device, validation.By(deviceRule)),
		validation.Field(&draft.X, validation.By(positionRule)),
		validation.Field(&draft.Y, validation.By(positionRule)),
	)
	if err != nil {
		return invalid(err)
	}
	return nil
}

func validateMessage(author models.DisplayName, content string) error {
	if strings.TrimSpace(string(author)) == "" {
		return invalid(errors.New("author_name: cannot be empty"))
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return invalid(errors.New("content: cannot be empty"))
	}
	if err := validation.Validate(content, validation.RuneLength(1, config.MaxCommentLength)); err != nil {
		return invalid(fmt.Errorf("content: %w", err))
	}
	return nil
}

// Submit stores a draft as an open root comment
func (s *annotationService) Submit(ctx context.Context, draft *reviewSvc.PendingDraft, author models.DisplayName, content string) (*models.Comment, error) {
	if draft == nil {
		return nil, invalid(errors.New("draft: cannot be empty"))
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	if err := validateMessage(author, content); err != nil {
		return nil, err
	}
	if _, err := s.screenRepo.GetByID(ctx, draft.ScreenID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ScreenID:   draft.ScreenID,
		XPosition:  draft.X,
		YPosition:  draft.Y,
		DeviceType: draft.Device,
		AuthorName: string(author),
		Content:    strings.TrimSpace(content),
		IsResolved: false,
		CreatedAt:  time.Now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment created",
		"id", comment.ID,
		"screen_id", comment.ScreenID,
		"device", comment.DeviceType,
		"author", comment.AuthorName,
	)
	s.publish(ctx, models.EventCommentCreated, comment)

	return comment, nil
}

// Reply copies position and device from the root it answers
func (s *annotationService) Reply(ctx context.Context, parentID string, author models.DisplayName, content string) (*models.Comment, error) {
	if err := validateMessage(author, content); err != nil {
		return nil, err
	}

	parent, err := s.commentRepo.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !parent.IsRoot() {
		return nil, invalid(errors.New("parent_id: replies cannot be replied to"))
	}

	reply := &models.Comment{
		ScreenID:   parent.ScreenID,
		ParentID:   &parent.ID,
		XPosition:  parent.XPosition,
		YPosition:  parent.YPosition,
		DeviceType: parent.DeviceType,
		AuthorName: string(author),
		Content:    strings.TrimSpace(content),
		CreatedAt:  time.Now(),
	}
	if err := s.commentRepo.Create(ctx, reply); err != nil {
		return nil, err
	}

	s.logger.Info("reply created",
		"id", reply.ID,
		"parent_id", parent.ID,
		"author", reply.AuthorName,
	)
	s.publish(ctx, models.EventCommentCreated, reply)

	return reply, nil
}

// ToggleResolved flips Open <-> Resolved. Any reviewer may do this.
func (s *annotationService) ToggleResolved(ctx context.Context, id string) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !comment.IsRoot() {
		return nil, invalid(errors.New("replies cannot be resolved"))
	}

	resolved := !comment.IsResolved
	if err := s.commentRepo.SetResolved(ctx, id, resolved); err != nil {
		return nil, err
	}
	comment.IsResolved = resolved

	event := models.EventCommentReopened
	if resolved {
		event = models.EventCommentResolved
	}
	s.logger.Info("comment resolution toggled", "id", id, "resolved", resolved)
	s.publish(ctx, event, comment)

	return comment, nil
}

// Edit replaces content only
func (s *annotationService) Edit(ctx context.Context, id, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid(errors.New("content: cannot be empty"))
	}
	if err := validation.Validate(content, validation.RuneLength(1, config.MaxCommentLength)); err != nil {
		return nil, invalid(fmt.Errorf("content: %w", err))
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	comment.Content = content

	s.logger.Info("comment edited", "id", id)
	return comment, nil
}

// Delete removes replies one by one and then the comment itself. A reply
// created between those writes can outlive its root; listings skip it.
func (s *annotationService) Delete(ctx context.Context, id string) error {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var removed int
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if comment.IsRoot() {
			replies, err := s.commentRepo.ListReplies(ctx, id)
			if err != nil {
				return err
			}
			for _, reply := range replies {
				err := s.commentRepo.Delete(ctx, reply.ID)
				switch {
				case err == nil:
					removed++
				case !errors.Is(err, domain.ErrNotFound):
					return err
				}
			}
		}
		return s.commentRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("comment deleted", "id", id, "replies_deleted", removed)
	s.publish(ctx, models.EventCommentDeleted, comment)
	return nil
}

func (s *annotationService) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, id)
}

func (s *annotationService) ListComments(ctx context.Context, screenID string) ([]models.Comment, error) {
	comments, err := s.commentRepo.ListByScreen(ctx, screenID)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			s.logger.Warn("list comments failed", "screen_id", screenID, "error", err)
		}
		return nil, err
	}
	models.SortComments(comments)
	return comments, nil
}

// ListForDevice numbers root comments by position in this device's listing.
// Numbers shift when the device changes or an earlier root is deleted.
func (s *annotationService) ListForDevice(ctx context.Context, screenID string, device models.Device) (models.Threads, error) {
	if err := validation.Validate(device, validation.By(deviceRule)); err != nil {
		return models.Threads{}, invalid(fmt.Errorf("device: %w", err))
	}

	comments, err := s.ListComments(ctx, screenID)
	if err != nil {
		return models.Threads{}, err
	}
	return models.NewThreads(comments, device), nil
}

func (s *annotationService) publish(ctx context.Context, kind models.EventType, c *models.Comment) {
	if s.events == nil {
		return
	}
	event := models.Event{
		Type:       kind,
		ScreenID:   c.ScreenID,
		CommentID:  c.ID,
		Actor:      c.AuthorName,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", "type", kind, "error", err)
	}
}
