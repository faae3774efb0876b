package review

import (
	"context"
	"strings"
	"testing"

	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
	reviewSvc "mockreview/internal/domain/services/review"
	"mockreview/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateClient(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	ctx := context.Background()

	a, err := env.catalog.CreateClient(ctx, &reviewSvc.CreateClientRequest{Name: "  Zeta Corp "})
	require.NoError(t, err)
	b, err := env.catalog.CreateClient(ctx, &reviewSvc.CreateClientRequest{Name: "Acme"})
	require.NoError(t, err)

	assert.Equal(t, "Zeta Corp", a.Name)
	assert.NotEmpty(t, a.Token)
	assert.NotEqual(t, a.Token, b.Token)
	assert.NotEqual(t, a.ID, a.Token)

	clients, err := env.catalog.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "Acme", clients[0].Name)
	assert.Equal(t, "Zeta Corp", clients[1].Name)

	_, err = env.catalog.CreateClient(ctx, &reviewSvc.CreateClientRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProjectLifecycle(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	ctx := context.Background()

	_, err := env.catalog.CreateProject(ctx, &reviewSvc.CreateProjectRequest{ClientID: "00000000-0000-0000-0000-000000000000", Name: "Site"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	project, screens := env.seedProject(t, "Home", "Pricing")
	assert.NotEmpty(t, project.Token)

	renamed, err := env.catalog.UpdateProject(ctx, project.ID, &reviewSvc.UpdateProjectRequest{Name: " Website v2 "})
	require.NoError(t, err)
	assert.Equal(t, "Website v2", renamed.Name)
	assert.Equal(t, project.Token, renamed.Token)

	_, err = env.catalog.UpdateProject(ctx, project.ID, &reviewSvc.UpdateProjectRequest{Name: strings.Repeat("n", 300)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.screenSvc.AttachImage(ctx, &reviewSvc.AttachImageRequest{
		ScreenID: screens[0].ID,
		Device:   models.DeviceDesktop,
		Filename: "home.png",
		Body:     strings.NewReader("img"),
	})
	require.NoError(t, err)
	c := submitAt(t, env, screens[0].ID, models.DeviceDesktop, 1, 1, "Alice", "note")
	_, err = env.voting.Toggle(ctx, screens[1].ID, "Bob")
	require.NoError(t, err)

	require.NoError(t, env.catalog.DeleteProject(ctx, project.ID))

	_, err = env.catalog.GetProject(ctx, project.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.annotation.GetComment(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	count, err := env.voting.CountFor(ctx, screens[1].ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Contains(t, env.blobs.deleted, project.ID+"/"+screens[0].ID+"/desktop.png")
}

func TestDeleteClientRemovesProjects(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	ctx := context.Background()
	project, _ := env.seedProject(t, "Home")

	session, err := env.access.OpenProject(ctx, project.Token)
	require.NoError(t, err)
	require.NoError(t, env.catalog.DeleteClient(ctx, session.Client.ID))

	_, err = env.access.OpenProject(ctx, project.Token)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, env.catalog.DeleteClient(ctx, session.Client.ID), domain.ErrNotFound)
}

func TestProjectDetail(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	ctx := context.Background()
	project, screens := env.seedProject(t, "Home", "Pricing")

	for _, voter := range []models.DisplayName{"Alice", "Bob"} {
		_, err := env.voting.Toggle(ctx, screens[1].ID, voter)
		require.NoError(t, err)
	}
	_, err := env.voting.Toggle(ctx, screens[0].ID, "Alice")
	require.NoError(t, err)

	detail, err := env.catalog.ProjectDetail(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Home", "Pricing"}, names(detail.Screens))
	assert.Equal(t, 3, detail.Votes.TotalVotes)
	assert.Equal(t, []string{"Alice", "Bob"}, detail.Votes.UniqueVoters)
	require.Len(t, detail.Votes.Screens, 2)
	assert.InDelta(t, 50.0, detail.Votes.Screens[0].Percentage, 1e-9)
	assert.InDelta(t, 100.0, detail.Votes.Screens[1].Percentage, 1e-9)
}
