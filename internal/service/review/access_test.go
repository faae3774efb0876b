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

func TestOpenProject(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	project, screens := env.seedProject(t, "Home", "Pricing")
	ctx := context.Background()

	_, err := env.screenSvc.ReorderScreen(ctx, screens[1].ID, reviewSvc.DirectionUp)
	require.NoError(t, err)
	_, err = env.voting.Toggle(ctx, screens[0].ID, "Alice")
	require.NoError(t, err)

	session, err := env.access.OpenProject(ctx, project.Token)
	require.NoError(t, err)
	assert.Equal(t, project.ID, session.Project.ID)
	require.NotNil(t, session.Client)
	assert.Equal(t, "Acme", session.Client.Name)
	assert.Equal(t, []string{"Pricing", "Home"}, names(session.Screens))
	require.Len(t, session.Votes, 1)
	assert.Equal(t, "Alice", session.Votes[0].VoterName)
}

func TestOpenProjectRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	project, _ := env.seedProject(t, "Home")

	for _, token := range []string{"", "unknown", strings.ToUpper(project.Token), project.ID} {
		session, err := env.access.OpenProject(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrNotFound, token)
		assert.Nil(t, session)
	}
}

func TestAdmitScreenAndComment(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	project, screens := env.seedProject(t, "Home")
	other, otherScreens := env.seedProject(t, "Elsewhere")
	ctx := context.Background()

	_, sc, err := env.access.AdmitScreen(ctx, project.Token, screens[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Home", sc.Name)

	_, _, err = env.access.AdmitScreen(ctx, project.Token, otherScreens[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c := submitAt(t, env, otherScreens[0].ID, models.DeviceDesktop, 1, 1, "Eve", "mine")
	_, _, err = env.access.AdmitComment(ctx, project.Token, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p, admitted, err := env.access.AdmitComment(ctx, other.Token, c.ID)
	require.NoError(t, err)
	assert.Equal(t, other.ID, p.ID)
	assert.Equal(t, c.ID, admitted.ID)
}

func TestOpenClient(t *testing.T) {
	env := newTestEnv(t, memory.Options{})
	ctx := context.Background()

	client, err := env.catalog.CreateClient(ctx, &reviewSvc.CreateClientRequest{Name: "Acme"})
	require.NoError(t, err)
	first, err := env.catalog.CreateProject(ctx, &reviewSvc.CreateProjectRequest{ClientID: client.ID, Name: "Website"})
	require.NoError(t, err)
	second, err := env.catalog.CreateProject(ctx, &reviewSvc.CreateProjectRequest{ClientID: client.ID, Name: "App"})
	require.NoError(t, err)

	portal, err := env.access.OpenClient(ctx, client.Token)
	require.NoError(t, err)
	assert.Equal(t, client.ID, portal.Client.ID)
	require.Len(t, portal.Projects, 2)
	assert.Equal(t, second.ID, portal.Projects[0].ID)
	assert.Equal(t, first.ID, portal.Projects[1].ID)

	p, err := env.access.AdmitClientProject(ctx, client.Token, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Website", p.Name)

	foreign, _ := env.seedProject(t)
	_, err = env.access.AdmitClientProject(ctx, client.Token, foreign.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = env.access.OpenClient(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.access.OpenClient(ctx, first.Token)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
