package handler

import (
	"net/http"
	"testing"

	models "mockreview/internal/domain/models/review"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenProject(t *testing.T) {
	s := newTestServer(t)
	_, project, screens := s.seed(t, "Acme", "Home", "Pricing")

	rec := s.do(t, http.MethodGet, "/api/review/"+project.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	session := decode[models.ReviewSession](t, rec)
	assert.Equal(t, project.ID, session.Project.ID)
	require.NotNil(t, session.Client)
	assert.Equal(t, "Acme", session.Client.Name)
	require.Len(t, session.Screens, 2)
	assert.Equal(t, screens[0].ID, session.Screens[0].ID)

	for _, bad := range []string{"nope", project.ID} {
		rec := s.do(t, http.MethodGet, "/api/review/"+bad, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, bad)
	}
}

func TestCommentPromptsForNameThenReplays(t *testing.T) {
	s := newTestServer(t)
	_, project, screens := s.seed(t, "Acme", "Home")
	base := "/api/review/" + project.Token

	body := map[string]any{"device_type": "desktop", "x_position": 42.5, "y_position": 10, "content": "Logo too small"}
	rec := s.do(t, http.MethodPost, base+"/screens/"+screens[0].ID+"/comments", body)
	require.Equal(t, http.StatusPreconditionRequired, rec.Code)
	prompt := decode[map[string]any](t, rec)
	promptID, _ := prompt["prompt_id"].(string)
	require.NotEmpty(t, promptID)

	// Nothing stored while the prompt is open
	rec = s.do(t, http.MethodGet, base+"/screens/"+screens[0].ID+"/comments?device=desktop", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[threadsResponse](t, rec).Threads)

	rec = s.do(t, http.MethodPut, base+"/identity", map[string]string{"name": "  Alice ", "prompt_id": promptID})
	require.Equal(t, http.StatusOK, rec.Code)
	confirmed := decode[map[string]any](t, rec)
	assert.Equal(t, "Alice", confirmed["name"])
	result, ok := confirmed["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Logo too small", result["content"])

	cookie := reviewerCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "Alice", cookie.Value)
	assert.True(t, cookie.HttpOnly)

	// The prompt is spent
	rec = s.do(t, http.MethodPut, base+"/identity", map[string]string{"name": "Alice", "prompt_id": promptID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, base+"/screens/"+screens[0].ID+"/comments", nil)
	listing := decode[threadsResponse](t, rec)
	assert.Equal(t, models.DeviceDesktop, listing.Device)
	require.Len(t, listing.Threads, 1)
	assert.Equal(t, 1, listing.Threads[0].Number)
	assert.Equal(t, "Alice", listing.Threads[0].Root.AuthorName)
	assert.Equal(t, 42.5, listing.Threads[0].Root.XPosition)

	rec = s.do(t, http.MethodGet, base+"/screens/"+screens[0].ID+"/comments?device=mobile", nil)
	assert.Empty(t, decode[threadsResponse](t, rec).Threads)
}

func TestCreateCommentValidation(t *testing.T) {
	s := newTestServer(t)
	_, project, screens := s.seed(t, "Acme", "Home")
	path := "/api/review/" + project.Token + "/screens/" + screens[0].ID + "/comments"

	tests := []struct {
		name string
		body map[string]any
	}{
		{"x out of range", map[string]any{"x_position": 150, "y_position": 10, "content": "hi"}},
		{"negative y", map[string]any{"x_position": 10, "y_position": -1, "content": "hi"}},
		{"blank content", map[string]any{"x_position": 10, "y_position": 10, "content": "   "}},
		{"unknown device", map[string]any{"device_type": "tablet", "x_position": 10, "y_position": 10, "content": "hi"}},
		{"missing x", map[string]any{"y_position": 10, "content": "hi"}},
		{"misspelled y", map[string]any{"x_position": 10, "y_pos": 10, "content": "hi"}},
		{"null x", map[string]any{"x_position": nil, "y_position": 10, "content": "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Validation wins over the name prompt
			rec := s.do(t, http.MethodPost, path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotContains(t, rec.Body.String(), "prompt_id")
		})
	}
}

func TestCommentLifecycleWithStoredName(t *testing.T) {
	s := newTestServer(t)
	_, project, screens := s.seed(t, "Acme", "Home")
	base := "/api/review/" + project.Token

	rec := s.do(t, http.MethodPost, base+"/screens/"+screens[0].ID+"/comments",
		map[string]any{"device_type": "mobile", "x_position": 5, "y_position": 95, "content": "Button hidden"},
		withCookie("Alice"))
	require.Equal(t, http.StatusCreated, rec.Code)
	root := decode[models.Comment](t, rec)
	assert.Equal(t, models.DeviceMobile, root.DeviceType)

	rec = s.do(t, http.MethodPost, base+"/comments/"+root.ID+"/replies",
		map[string]string{"content": "Agreed"}, withCookie("Bob"))
	require.Equal(t, http.StatusCreated, rec.Code)
	reply := decode[models.Comment](t, rec)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, root.ID, *reply.ParentID)
	assert.Equal(t, 95.0, reply.YPosition)
	assert.Equal(t, "Bob", reply.AuthorName)

	rec = s.do(t, http.MethodPost, base+"/comments/"+root.ID+"/resolve", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.Comment](t, rec).IsResolved)

	rec = s.do(t, http.MethodPatch, base+"/comments/"+reply.ID, map[string]string{"content": "Agreed, fix it"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Agreed, fix it", decode[models.Comment](t, rec).Content)

	rec = s.do(t, http.MethodGet, base+"/screens/"+screens[0].ID+"/comments?device=mobile", nil)
	listing := decode[threadsResponse](t, rec)
	require.Len(t, listing.Threads, 1)
	require.Len(t, listing.Threads[0].Replies, 1)

	rec = s.do(t, http.MethodDelete, base+"/comments/"+root.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, base+"/screens/"+screens[0].ID+"/comments?device=mobile", nil)
	assert.Empty(t, decode[threadsResponse](t, rec).Threads)
	rec = s.do(t, http.MethodPatch, base+"/comments/"+reply.ID, map[string]string{"content": "gone"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTokenCannotReachOtherProjects(t *testing.T) {
	s := newTestServer(t)
	_, projectA, _ := s.seed(t, "Acme", "Home")
	_, projectB, screensB := s.seed(t, "Globex", "Landing")

	rec := s.do(t, http.MethodPost, "/api/review/"+projectB.Token+"/screens/"+screensB[0].ID+"/comments",
		map[string]any{"x_position": 1, "y_position": 1, "content": "mine"}, withCookie("Bob"))
	require.Equal(t, http.StatusCreated, rec.Code)
	comment := decode[models.Comment](t, rec)

	baseA := "/api/review/" + projectA.Token
	checks := []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, baseA + "/screens/" + screensB[0].ID + "/comments", nil},
		{http.MethodPost, baseA + "/screens/" + screensB[0].ID + "/vote", nil},
		{http.MethodPost, baseA + "/comments/" + comment.ID + "/resolve", nil},
		{http.MethodPatch, baseA + "/comments/" + comment.ID, map[string]string{"content": "hijack"}},
		{http.MethodDelete, baseA + "/comments/" + comment.ID, nil},
	}
	for _, c := range checks {
		rec := s.do(t, c.method, c.path, c.body, withCookie("Mallory"))
		assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", c.method, c.path)
	}
}

func TestToggleVoteAndSummary(t *testing.T) {
	s := newTestServer(t)
	_, project, screens := s.seed(t, "Acme", "Home", "Pricing")
	base := "/api/review/" + project.Token

	rec := s.do(t, http.MethodPost, base+"/screens/"+screens[1].ID+"/vote", nil)
	require.Equal(t, http.StatusPreconditionRequired, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/screens/"+screens[1].ID+"/vote", nil, withCookie("Bob"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[models.ToggleResult](t, rec).Voted)

	rec = s.do(t, http.MethodPost, base+"/screens/"+screens[1].ID+"/vote", nil, withCookie("Carol"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, base+"/votes", nil, withCookie("Bob"))
	require.Equal(t, http.StatusOK, rec.Code)
	votes := decode[votesResponse](t, rec)
	assert.Equal(t, 2, votes.Summary.TotalVotes)
	assert.Equal(t, []string{"Bob", "Carol"}, votes.Summary.UniqueVoters)
	assert.Equal(t, []string{screens[1].ID}, votes.Voted)
	require.Len(t, votes.Summary.Screens, 2)
	assert.Equal(t, 100.0, votes.Summary.Screens[1].Percentage)
	assert.Equal(t, 0.0, votes.Summary.Screens[0].Percentage)

	rec = s.do(t, http.MethodPost, base+"/screens/"+screens[1].ID+"/vote", nil, withCookie("Bob"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[models.ToggleResult](t, rec).Voted)

	rec = s.do(t, http.MethodGet, base+"/votes", nil, withCookie("Bob"))
	votes = decode[votesResponse](t, rec)
	assert.Equal(t, 1, votes.Summary.TotalVotes)
	assert.Empty(t, votes.Voted)
}

func TestIdentityEndpoints(t *testing.T) {
	s := newTestServer(t)
	_, project, screens := s.seed(t, "Acme", "Home")
	base := "/api/review/" + project.Token

	rec := s.do(t, http.MethodGet, base+"/identity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[identityResponse](t, rec).Known)

	rec = s.do(t, http.MethodGet, base+"/identity", nil, withCookie("Alice"))
	got := decode[identityResponse](t, rec)
	assert.True(t, got.Known)
	assert.Equal(t, "Alice", got.Name)

	// Setting a name without a prompt only stores it
	rec = s.do(t, http.MethodPut, base+"/identity", map[string]string{"name": "Dana"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, reviewerCookie(rec))

	rec = s.do(t, http.MethodPut, base+"/identity", map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, reviewerCookie(rec))

	// An abandoned prompt cannot be confirmed
	rec = s.do(t, http.MethodPost, base+"/screens/"+screens[0].ID+"/vote", nil)
	require.Equal(t, http.StatusPreconditionRequired, rec.Code)
	promptID := decode[map[string]any](t, rec)["prompt_id"].(string)

	rec = s.do(t, http.MethodDelete, base+"/identity/prompts/"+promptID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPut, base+"/identity", map[string]string{"name": "Eve", "prompt_id": promptID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/review/unknown/identity", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
