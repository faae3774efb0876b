package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	models "mockreview/internal/domain/models/review"
	"mockreview/internal/events"
	"mockreview/internal/repository/memory"
	"mockreview/internal/service/review"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServices(store *memory.Store) Services {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewFanout(nil, logger)
	return Services{
		Catalog:    review.NewCatalogService(store.Clients(), store.Projects(), store.Screens(), store.Votes(), nil, logger),
		Screens:    review.NewScreenService(store.Projects(), store.Screens(), nil, store.TxManager(), logger),
		Annotation: review.NewAnnotationService(store.Screens(), store.Comments(), store.TxManager(), publisher, logger),
		Voting:     review.NewVotingService(store.Votes(), publisher, logger),
	}
}

func TestDefaultFixtureApplies(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)

	store := memory.NewStore(memory.Options{UniqueVotes: true})
	svc := testServices(store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	res, err := Apply(context.Background(), f, svc, logger)
	require.NoError(t, err)

	assert.Len(t, res.Clients, 2)
	assert.Len(t, res.Projects, 2)
	assert.Equal(t, 5, res.Screens)
	assert.Equal(t, 4, res.Comments)
	assert.Equal(t, 5, res.Votes)

	ctx := context.Background()
	screens, err := svc.Screens.ListScreens(ctx, res.Projects[0].ID)
	require.NoError(t, err)
	require.Len(t, screens, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{screens[0].SortOrder, screens[1].SortOrder, screens[2].SortOrder})
	require.NotNil(t, screens[0].DesktopLabel)
	assert.Equal(t, "Hero with seasonal menu", *screens[0].DesktopLabel)
	assert.Nil(t, screens[2].DesktopLabel)

	threads, err := svc.Annotation.ListForDevice(ctx, screens[0].ID, models.DeviceDesktop)
	require.NoError(t, err)
	all := threads.Collect()
	require.Len(t, all, 1)
	assert.True(t, all[0].Root.IsResolved)
	require.Len(t, all[0].Replies, 1)
	assert.Equal(t, "Dana", all[0].Replies[0].AuthorName)

	voters, err := svc.Voting.VotersFor(ctx, screens[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, voters)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("clients:\n  - name: Acme\n    colour: red\n"))
	assert.Error(t, err)

	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, f.Clients)
}

func TestApplyStopsAtInvalidRecord(t *testing.T) {
	f, err := Parse([]byte(`
clients:
  - name: Acme
    projects:
      - name: Site
        screens:
          - name: Home
            comments:
              - author: Alice
                device: tablet
                x: 1
                y: 1
                content: hi
`))
	require.NoError(t, err)

	store := memory.NewStore(memory.Options{})
	res, err := Apply(context.Background(), f, testServices(store), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
	assert.Len(t, res.Clients, 1)
	assert.Equal(t, 1, res.Screens)
}
