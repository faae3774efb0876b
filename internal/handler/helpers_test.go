package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mockreview/internal/auth"
	models "mockreview/internal/domain/models/review"
	reviewSvc "mockreview/internal/domain/services/review"
	"mockreview/internal/httputil"
	"mockreview/internal/middleware"
	"mockreview/internal/repository/memory"
	"mockreview/internal/service/review"
	"mockreview/internal/storage"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testPassword = "correct horse"
	testSecret   = "0123456789abcdef0123456789abcdef"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type nopEvents struct{}

func (nopEvents) Publish(context.Context, models.Event) error { return nil }

type testServer struct {
	handler http.Handler
	store   *memory.Store
	catalog reviewSvc.CatalogService
	screens reviewSvc.ScreenService
	token   string // operator bearer token
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := testLogger()
	store := memory.NewStore(memory.Options{UniqueVotes: true})

	blobs, err := storage.NewLocalStore(t.TempDir(), "http://files.test")
	require.NoError(t, err)

	hash, err := auth.HashPassword(testPassword, bcrypt.MinCost)
	require.NoError(t, err)
	sessions, err := auth.NewPasswordSessions(hash, testSecret, time.Hour, logger)
	require.NoError(t, err)

	events := nopEvents{}
	catalog := review.NewCatalogService(store.Clients(), store.Projects(), store.Screens(), store.Votes(), blobs, logger)
	screens := review.NewScreenService(store.Projects(), store.Screens(), blobs, store.TxManager(), logger)
	annotation := review.NewAnnotationService(store.Screens(), store.Comments(), store.TxManager(), events, logger)
	voting := review.NewVotingService(store.Votes(), events, logger)
	access := review.NewAccessGateway(store.Clients(), store.Projects(), store.Screens(), store.Comments(), store.Votes(), logger)
	export := review.NewExportService(store.Projects(), store.Screens(), blobs, logger)

	handlers := &Handlers{
		Review:   NewReviewHandler(access, annotation, voting, review.NewIdentityResolver(logger), false, logger),
		Portal:   NewPortalHandler(access, export, logger),
		Session:  NewSessionHandler(sessions, logger),
		Clients:  NewClientHandler(catalog, logger),
		Projects: NewProjectHandler(catalog, screens, export, logger),
		Screens:  NewScreenHandler(screens, logger),
		Health: NewHealthHandler(map[string]HealthCheck{
			"store": func(context.Context) error { return nil },
		}, logger),
	}

	mux := http.NewServeMux()
	passthrough := func(next http.Handler) http.Handler { return next }
	handlers.Register(mux, passthrough, middleware.RequireOperator(sessions, logger))

	session, err := sessions.Login(testPassword)
	require.NoError(t, err)

	return &testServer{
		handler: mux,
		store:   store,
		catalog: catalog,
		screens: screens,
		token:   session.Token,
	}
}

type requestOption func(*http.Request)

func withCookie(name string) requestOption {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: httputil.ReviewerCookie, Value: name})
	}
}

func asOperator(token string) requestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) admin(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, method, path, body, asOperator(s.token))
}

// upload sends a multipart image as the operator
func (s *testServer) upload(t *testing.T, screenID, device, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/admin/screens/"+screenID+"/images/"+device, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// seed creates a client, a project and the named screens
func (s *testServer) seed(t *testing.T, clientName string, screenNames ...string) (*models.Client, *models.Project, []models.Screen) {
	t.Helper()
	ctx := context.Background()

	client, err := s.catalog.CreateClient(ctx, &reviewSvc.CreateClientRequest{Name: clientName})
	require.NoError(t, err)
	project, err := s.catalog.CreateProject(ctx, &reviewSvc.CreateProjectRequest{ClientID: client.ID, Name: clientName + " site"})
	require.NoError(t, err)

	var screens []models.Screen
	for _, name := range screenNames {
		sc, err := s.screens.CreateScreen(ctx, &reviewSvc.CreateScreenRequest{ProjectID: project.ID, Name: name})
		require.NoError(t, err)
		screens = append(screens, *sc)
	}
	return client, project, screens
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// reviewerCookie returns the name cookie set on a response
func reviewerCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == httputil.ReviewerCookie {
			return c
		}
	}
	return nil
}
