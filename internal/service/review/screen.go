package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"slices"
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

// imageExtensions are the upload formats reviewers' browsers can render
var imageExtensions = []string{"png", "jpg", "jpeg", "gif", "webp", "svg", "avif"}

// screenService implements the ScreenService interface
type screenService struct {
	projectRepo reviewRepo.ProjectRepository
	screenRepo  reviewRepo.ScreenRepository
	blobs       repositories.BlobStore
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewScreenService creates a new screen service
func NewScreenService(
	projectRepo reviewRepo.ProjectRepository,
	screenRepo reviewRepo.ScreenRepository,
	blobs repositories.BlobStore,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) reviewSvc.ScreenService {
	return &screenService{
		projectRepo: projectRepo,
		screenRepo:  screenRepo,
		blobs:       blobs,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateScreen appends a screen at the end of the project's order
func (s *screenService) CreateScreen(ctx context.Context, req *reviewSvc.CreateScreenRequest) (*models.Screen, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Name, nameRules(config.MaxScreenNameLength)...),
	)
	if err != nil {
		return nil, invalid(err)
	}

	if _, err := s.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		return nil, err
	}

	existing, err := s.screenRepo.ListByProject(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}

	screen := &models.Screen{
		ProjectID: req.ProjectID,
		Name:      strings.TrimSpace(req.Name),
		SortOrder: len(existing),
		CreatedAt: time.Now(),
	}
	if err := s.screenRepo.Create(ctx, screen); err != nil {
		return nil, err
	}

	s.logger.Info("screen created",
		"id", screen.ID,
		"project_id", screen.ProjectID,
		"sort_order", screen.SortOrder,
	)

	return screen, nil
}

func (s *screenService) GetScreen(ctx context.Context, id string) (*models.Screen, error) {
	return s.screenRepo.GetByID(ctx, id)
}

// ListScreens returns screens in display order
func (s *screenService) ListScreens(ctx context.Context, projectID string) ([]models.Screen, error) {
	screens, err := s.screenRepo.ListByProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			s.logger.Warn("list screens failed", "project_id", projectID, "error", err)
		}
		return nil, err
	}
	models.SortScreens(screens)
	return screens, nil
}

func (s *screenService) RenameScreen(ctx context.Context, id string, req *reviewSvc.RenameScreenRequest) (*models.Screen, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Name, nameRules(config.MaxScreenNameLength)...),
	)
	if err != nil {
		return nil, invalid(err)
	}

	name := strings.TrimSpace(req.Name)
	if err := s.screenRepo.UpdateName(ctx, id, name); err != nil {
		return nil, err
	}

	s.logger.Info("screen renamed", "id", id, "name", name)
	return s.screenRepo.GetByID(ctx, id)
}

// SetLabel sets the caption for one device. A nil or blank label clears it.
func (s *screenService) SetLabel(ctx context.Context, id string, device models.Device, label *string) (*models.Screen, error) {
	if err := validation.Validate(device, validation.By(deviceRule)); err != nil {
		return nil, invalid(fmt.Errorf("device: %w", err))
	}

	var value *string
	if label != nil {
		trimmed := strings.TrimSpace(*label)
		if err := validation.Validate(trimmed, validation.RuneLength(0, config.MaxLabelLength)); err != nil {
			return nil, invalid(fmt.Errorf("label: %w", err))
		}
		if trimmed != "" {
			value = &trimmed
		}
	}

	if err := s.screenRepo.UpdateLabel(ctx, id, device, value); err != nil {
		return nil, err
	}

	s.logger.Debug("screen label set", "id", id, "device", device, "cleared", value == nil)
	return s.screenRepo.GetByID(ctx, id)
}

// AttachImage uploads to {projectId}/{screenId}/{device}.{ext}, overwriting
// whatever is there, then points the screen at the new URL. Concurrent
// attaches are not coordinated: the last field write wins.
func (s *screenService) AttachImage(ctx context.Context, req *reviewSvc.AttachImageRequest) (string, error) {
	if err := validation.Validate(req.Device, validation.By(deviceRule)); err != nil {
		return "", invalid(fmt.Errorf("device: %w", err))
	}
	if req.Body == nil {
		return "", invalid(errors.New("image: cannot be empty"))
	}

	ext, err := imageExtension(req.Filename)
	if err != nil {
		return "", invalid(err)
	}

	screen, err := s.screenRepo.GetByID(ctx, req.ScreenID)
	if err != nil {
		return "", err
	}

	key := BlobKey(screen.ProjectID, screen.ID, req.Device, ext)
	body := &cappedReader{r: req.Body, limit: config.MaxImageUploadBytes}
	if err := s.blobs.Put(ctx, key, req.ContentType, body); err != nil {
		if body.exceeded {
			return "", invalid(fmt.Errorf("image: %w", errImageTooLarge))
		}
		return "", domain.NewStoreError("upload image", err)
	}

	url := s.blobs.PublicURL(key)
	if err := s.screenRepo.UpdateImage(ctx, screen.ID, req.Device, &url); err != nil {
		return "", err
	}

	// A different extension leaves the previous object behind under its old key
	if prev := screen.Image(req.Device); prev != nil {
		if oldKey, ok := s.blobs.KeyFromURL(*prev); ok && oldKey != key {
			s.deleteBlobs(ctx, screen.ID, oldKey)
		}
	}

	s.logger.Info("image attached",
		"screen_id", screen.ID,
		"device", req.Device,
		"key", key,
	)

	return url, nil
}

// DetachImage deletes the blob (best effort) and clears the field
func (s *screenService) DetachImage(ctx context.Context, id string, device models.Device) (*models.Screen, error) {
	if err := validation.Validate(device, validation.By(deviceRule)); err != nil {
		return nil, invalid(fmt.Errorf("device: %w", err))
	}

	screen, err := s.screenRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if url := screen.Image(device); url != nil {
		if key, ok := s.blobs.KeyFromURL(*url); ok {
			s.deleteBlobs(ctx, id, key)
		}
	}

	if err := s.screenRepo.UpdateImage(ctx, id, device, nil); err != nil {
		return nil, err
	}
	screen.SetImage(device, nil)

	s.logger.Info("image detached", "screen_id", id, "device", device)
	return screen, nil
}

// RemoveScreen deletes the screen's blobs before its record. Blob failures
// are logged and never block the record deletion. Later screens are then
// shifted down so the order stays dense.
func (s *screenService) RemoveScreen(ctx context.Context, id string) error {
	screen, err := s.screenRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var keys []string
	for _, d := range models.Devices {
		if url := screen.Image(d); url != nil {
			if key, ok := s.blobs.KeyFromURL(*url); ok {
				keys = append(keys, key)
			}
		}
	}
	s.deleteBlobs(ctx, id, keys...)

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.screenRepo.Delete(ctx, id); err != nil {
			return err
		}
		return s.compact(ctx, screen.ProjectID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("screen removed", "id", id, "project_id", screen.ProjectID)
	return nil
}

// compact rewrites sort_order for screens whose stored value differs from
// their list position. One write per moved screen.
func (s *screenService) compact(ctx context.Context, projectID string) error {
	screens, err := s.screenRepo.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	models.SortScreens(screens)

	for i, sc := range screens {
		if sc.SortOrder == i {
			continue
		}
		if err := s.screenRepo.UpdateSortOrder(ctx, sc.ID, i); err != nil {
			return err
		}
	}
	return nil
}

// ReorderScreen swaps list positions with the neighbor in dir using two
// separate writes. Where the store has no transactions an interruption
// between them leaves a duplicate sort_order, which readers tolerate.
func (s *screenService) ReorderScreen(ctx context.Context, id string, dir reviewSvc.Direction) ([]models.Screen, error) {
	screen, err := s.screenRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	screens, err := s.screenRepo.ListByProject(ctx, screen.ProjectID)
	if err != nil {
		return nil, err
	}
	models.SortScreens(screens)

	idx := slices.IndexFunc(screens, func(sc models.Screen) bool { return sc.ID == id })
	if idx < 0 {
		return nil, fmt.Errorf("screen %s: %w", id, domain.ErrNotFound)
	}

	var target int
	switch dir {
	case reviewSvc.DirectionUp:
		target = idx - 1
	case reviewSvc.DirectionDown:
		target = idx + 1
	default:
		return nil, invalid(fmt.Errorf("direction: unknown value %q", dir))
	}
	if target < 0 || target >= len(screens) {
		return screens, nil
	}

	neighbor := screens[target]
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.screenRepo.UpdateSortOrder(ctx, id, target); err != nil {
			return err
		}
		return s.screenRepo.UpdateSortOrder(ctx, neighbor.ID, idx)
	})
	if err != nil {
		return nil, err
	}

	screens[idx].SortOrder = target
	screens[target].SortOrder = idx
	models.SortScreens(screens)

	s.logger.Info("screen reordered",
		"id", id,
		"direction", dir,
		"from", idx,
		"to", target,
	)

	return screens, nil
}

// deleteBlobs removes objects, logging instead of failing
func (s *screenService) deleteBlobs(ctx context.Context, screenID string, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := s.blobs.Delete(ctx, keys...); err != nil {
		s.logger.Warn("blob delete failed",
			"screen_id", screenID,
			"keys", keys,
			"error", err,
		)
	}
}

// BlobKey is the storage path of a screen's device image.
func BlobKey(projectID, screenID string, device models.Device, ext string) string {
	return fmt.Sprintf("%s/%s/%s.%s", projectID, screenID, device, ext)
}

// imageExtension derives the lower-case extension from an upload filename,
// defaulting to png when there is none.
func imageExtension(filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		return "png", nil
	}
	if !slices.Contains(imageExtensions, ext) {
		return "", fmt.Errorf("image: unsupported file type %q", ext)
	}
	return ext, nil
}

var errImageTooLarge = fmt.Errorf("must be at most %d bytes", config.MaxImageUploadBytes)

// cappedReader fails the read that crosses limit, so the blob store aborts
// the upload instead of keeping a truncated object.
type cappedReader struct {
	r        io.Reader
	limit    int64
	n        int64
	exceeded bool
}

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.exceeded {
		return 0, errImageTooLarge
	}
	if room := c.limit - c.n + 1; int64(len(p)) > room {
		p = p[:room]
	}
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.n > c.limit {
		c.exceeded = true
		return 0, errImageTooLarge
	}
	return n, err
}
