package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"mockreview/internal/config"
	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
	"mockreview/internal/domain/repositories"
	reviewRepo "mockreview/internal/domain/repositories/review"
	reviewSvc "mockreview/internal/domain/services/review"
	"mockreview/internal/utils"

	"golang.org/x/sync/errgroup"
)

// exportService implements the ExportService interface
type exportService struct {
	projectRepo reviewRepo.ProjectRepository
	screenRepo  reviewRepo.ScreenRepository
	blobs       repositories.BlobStore
	concurrency int
	logger      *slog.Logger
}

// NewExportService creates a new export service
func NewExportService(
	projectRepo reviewRepo.ProjectRepository,
	screenRepo reviewRepo.ScreenRepository,
	blobs repositories.BlobStore,
	logger *slog.Logger,
) reviewSvc.ExportService {
	return &exportService{
		projectRepo: projectRepo,
		screenRepo:  screenRepo,
		blobs:       blobs,
		concurrency: config.ExportFetchConcurrency,
		logger:      logger,
	}
}

// ExportProject fetches every attached image concurrently and writes them
// as {screen name}/{device}.{ext}, in screen order. Nothing is written to w
// unless every fetch succeeds.
func (s *exportService) ExportProject(ctx context.Context, projectID string, w io.Writer) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	screens, err := s.screenRepo.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	models.SortScreens(screens)

	type job struct {
		key  string
		name string
	}
	var jobs []job
	folders := utils.UniqueNames{}
	for i, sc := range screens {
		folder := folders.Next(utils.SafeEntryName(sc.Name, fmt.Sprintf("screen-%d", i+1)))
		for _, d := range models.Devices {
			url := sc.Image(d)
			if url == nil {
				continue
			}
			key, ok := s.blobs.KeyFromURL(*url)
			if !ok {
				s.logger.Warn("image url outside storage, skipped", "screen_id", sc.ID, "device", d)
				continue
			}
			ext := path.Ext(key)
			if ext == "" {
				ext = ".png"
			}
			jobs = append(jobs, job{key: key, name: folder + "/" + d.String() + ext})
		}
	}
	if len(jobs) == 0 {
		return invalid(errors.New("project: no images to export"))
	}

	entries := make([]utils.ZipEntry, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, j := range jobs {
		g.Go(func() error {
			body, err := s.fetch(gctx, j.key)
			if err != nil {
				return err
			}
			entries[i] = utils.ZipEntry{Name: j.name, Body: body, Modified: project.UpdatedAt}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := utils.WriteZip(w, entries); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}

	s.logger.Info("project exported", "project_id", projectID, "files", len(entries))
	return nil
}

func (s *exportService) fetch(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.blobs.Open(ctx, key)
	if err != nil {
		return nil, domain.NewStoreError("open "+key, err)
	}
	defer rc.Close()

	body, err := io.ReadAll(io.LimitReader(rc, config.MaxImageUploadBytes+1))
	if err != nil {
		return nil, domain.NewStoreError("read "+key, err)
	}
	if len(body) > config.MaxImageUploadBytes {
		return nil, invalid(fmt.Errorf("%s: image exceeds export limit", key))
	}
	return body, nil
}
