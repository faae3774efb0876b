package review

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	models "mockreview/internal/domain/models/review"
	reviewRepo "mockreview/internal/domain/repositories/review"
	reviewSvc "mockreview/internal/domain/services/review"
	"mockreview/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

const testBlobBase = "https://cdn.test/mockups/"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeBlobs is an in-memory BlobStore with switchable failures
type fakeBlobs struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	deleteErr error
	openErr   error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte)}
}

func (b *fakeBlobs) Put(_ context.Context, key, _ string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.objects[key] = data
	b.mu.Unlock()
	return nil
}

func (b *fakeBlobs) Delete(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deleteErr != nil {
		return b.deleteErr
	}
	for _, k := range keys {
		delete(b.objects, k)
		b.deleted = append(b.deleted, k)
	}
	return nil
}

func (b *fakeBlobs) Open(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openErr != nil {
		return nil, b.openErr
	}
	data, ok := b.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s missing", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *fakeBlobs) PublicURL(key string) string { return testBlobBase + key }

func (b *fakeBlobs) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, testBlobBase) {
		return "", false
	}
	return strings.TrimPrefix(url, testBlobBase), true
}

func (b *fakeBlobs) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok
}

// recordingEvents collects published events
type recordingEvents struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (r *recordingEvents) Publish(_ context.Context, e models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recordingEvents) types() []models.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// countingScreens counts sort order writes and can fail the nth one
type countingScreens struct {
	reviewRepo.ScreenRepository
	mu         sync.Mutex
	sortWrites int
	failOn     int
}

var errInjected = errors.New("injected failure")

func (c *countingScreens) UpdateSortOrder(ctx context.Context, id string, order int) error {
	c.mu.Lock()
	c.sortWrites++
	n := c.sortWrites
	c.mu.Unlock()
	if c.failOn > 0 && n == c.failOn {
		return errInjected
	}
	return c.ScreenRepository.UpdateSortOrder(ctx, id, order)
}

func (c *countingScreens) writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortWrites
}

type testEnv struct {
	store   *memory.Store
	blobs   *fakeBlobs
	events  *recordingEvents
	screens *countingScreens

	screenSvc  reviewSvc.ScreenService
	annotation reviewSvc.AnnotationService
	voting     reviewSvc.VotingService
	access     reviewSvc.AccessGateway
	catalog    reviewSvc.CatalogService
	export     reviewSvc.ExportService
}

func newTestEnv(t *testing.T, opts memory.Options) *testEnv {
	t.Helper()
	store := memory.NewStore(opts)
	env := &testEnv{
		store:   store,
		blobs:   newFakeBlobs(),
		events:  &recordingEvents{},
		screens: &countingScreens{ScreenRepository: store.Screens()},
	}
	logger := testLogger()

	env.screenSvc = NewScreenService(store.Projects(), env.screens, env.blobs, store.TxManager(), logger)
	env.annotation = NewAnnotationService(store.Screens(), store.Comments(), store.TxManager(), env.events, logger)
	env.voting = NewVotingService(store.Votes(), env.events, logger)
	env.access = NewAccessGateway(store.Clients(), store.Projects(), store.Screens(), store.Comments(), store.Votes(), logger)
	env.catalog = NewCatalogService(store.Clients(), store.Projects(), store.Screens(), store.Votes(), env.blobs, logger)
	env.export = NewExportService(store.Projects(), store.Screens(), env.blobs, logger)
	return env
}

// seedProject creates a client and a project with the named screens
func (env *testEnv) seedProject(t *testing.T, screenNames ...string) (*models.Project, []models.Screen) {
	t.Helper()
	ctx := context.Background()

	client, err := env.catalog.CreateClient(ctx, &reviewSvc.CreateClientRequest{Name: "Acme"})
	require.NoError(t, err)
	project, err := env.catalog.CreateProject(ctx, &reviewSvc.CreateProjectRequest{ClientID: client.ID, Name: "Website"})
	require.NoError(t, err)

	screens := make([]models.Screen, 0, len(screenNames))
	for _, name := range screenNames {
		sc, err := env.screenSvc.CreateScreen(ctx, &reviewSvc.CreateScreenRequest{ProjectID: project.ID, Name: name})
		require.NoError(t, err)
		screens = append(screens, *sc)
	}
	return project, screens
}

// orderOf maps screen name to stored sort_order
func (env *testEnv) orderOf(t *testing.T, projectID string) map[string]int {
	t.Helper()
	screens, err := env.store.Screens().ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	out := make(map[string]int, len(screens))
	for _, sc := range screens {
		out[sc.Name] = sc.SortOrder
	}
	return out
}

func names(screens []models.Screen) []string {
	out := make([]string, 0, len(screens))
	for _, sc := range screens {
		out = append(out, sc.Name)
	}
	return out
}
