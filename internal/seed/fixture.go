// Package seed loads demo clients, projects, screens, comments and votes
// from a YAML fixture through the review services.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"

	models "mockreview/internal/domain/models/review"
	reviewSvc "mockreview/internal/domain/services/review"

	"gopkg.in/yaml.v3"
)

//go:embed fixture.yaml
var defaultFixture []byte

// Fixture is the root of a seed file
type Fixture struct {
	Clients []ClientFixture `yaml:"clients"`
}

type ClientFixture struct {
	Name     string           `yaml:"name"`
	Projects []ProjectFixture `yaml:"projects"`
}

type ProjectFixture struct {
	Name    string          `yaml:"name"`
	Screens []ScreenFixture `yaml:"screens"`
}

type ScreenFixture struct {
	Name         string           `yaml:"name"`
	DesktopLabel string           `yaml:"desktop_label"`
	MobileLabel  string           `yaml:"mobile_label"`
	Votes        []string         `yaml:"votes"`
	Comments     []CommentFixture `yaml:"comments"`
}

type CommentFixture struct {
	Author   string         `yaml:"author"`
	Device   string         `yaml:"device"`
	X        float64        `yaml:"x"`
	Y        float64        `yaml:"y"`
	Content  string         `yaml:"content"`
	Resolved bool           `yaml:"resolved"`
	Replies  []ReplyFixture `yaml:"replies"`
}

type ReplyFixture struct {
	Author  string `yaml:"author"`
	Content string `yaml:"content"`
}

// Default returns the embedded demo fixture
func Default() (*Fixture, error) {
	return Parse(defaultFixture)
}

// Parse decodes a fixture, rejecting unknown keys
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// Services are the operations a fixture is applied through
type Services struct {
	Catalog    reviewSvc.CatalogService
	Screens    reviewSvc.ScreenService
	Annotation reviewSvc.AnnotationService
	Voting     reviewSvc.VotingService
}

// Result lists what was created, for printing share links
type Result struct {
	Clients  []models.Client
	Projects []models.Project
	Screens  int
	Comments int
	Votes    int
}

// Apply creates every record in the fixture. It stops at the first error;
// records created before it are kept.
func Apply(ctx context.Context, f *Fixture, svc Services, logger *slog.Logger) (*Result, error) {
	res := &Result{}

	for _, cf := range f.Clients {
		client, err := svc.Catalog.CreateClient(ctx, &reviewSvc.CreateClientRequest{Name: cf.Name})
		if err != nil {
			return res, fmt.Errorf("client %q: %w", cf.Name, err)
		}
		res.Clients = append(res.Clients, *client)

		for _, pf := range cf.Projects {
			project, err := svc.Catalog.CreateProject(ctx, &reviewSvc.CreateProjectRequest{ClientID: client.ID, Name: pf.Name})
			if err != nil {
				return res, fmt.Errorf("project %q: %w", pf.Name, err)
			}
			res.Projects = append(res.Projects, *project)

			for _, sf := range pf.Screens {
				if err := applyScreen(ctx, project.ID, sf, svc, res); err != nil {
					return res, fmt.Errorf("screen %q: %w", sf.Name, err)
				}
			}
			logger.Info("project seeded", "client", client.Name, "project", project.Name, "screens", len(pf.Screens))
		}
	}

	return res, nil
}

func applyScreen(ctx context.Context, projectID string, sf ScreenFixture, svc Services, res *Result) error {
	screen, err := svc.Screens.CreateScreen(ctx, &reviewSvc.CreateScreenRequest{ProjectID: projectID, Name: sf.Name})
	if err != nil {
		return err
	}
	res.Screens++

	labels := map[models.Device]string{
		models.DeviceDesktop: sf.DesktopLabel,
		models.DeviceMobile:  sf.MobileLabel,
	}
	for _, d := range models.Devices {
		if labels[d] == "" {
			continue
		}
		label := labels[d]
		if _, err := svc.Screens.SetLabel(ctx, screen.ID, d, &label); err != nil {
			return err
		}
	}

	for _, cf := range sf.Comments {
		device, err := models.ParseDevice(cf.Device)
		if err != nil {
			return err
		}
		draft, err := svc.Annotation.Place(screen.ID, device, cf.X, cf.Y)
		if err != nil {
			return err
		}
		root, err := svc.Annotation.Submit(ctx, draft, models.DisplayName(cf.Author), cf.Content)
		if err != nil {
			return err
		}
		res.Comments++

		for _, rf := range cf.Replies {
			if _, err := svc.Annotation.Reply(ctx, root.ID, models.DisplayName(rf.Author), rf.Content); err != nil {
				return err
			}
			res.Comments++
		}

		if cf.Resolved {
			if _, err := svc.Annotation.ToggleResolved(ctx, root.ID); err != nil {
				return err
			}
		}
	}

	for _, voter := range sf.Votes {
		name, err := models.NewDisplayName(voter)
		if err != nil {
			return err
		}
		if _, err := svc.Voting.Toggle(ctx, screen.ID, name); err != nil {
			return err
		}
		res.Votes++
	}

	return nil
}
