package handler

import (
	"archive/zip"
	"bytes"
	"io"
	"net/http"
	"testing"

	models "mockreview/internal/domain/models/review"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPortal(t *testing.T) {
	s := newTestServer(t)
	client, project, _ := s.seed(t, "Acme")

	rec := s.do(t, http.MethodGet, "/api/portal/"+client.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	portal := decode[models.ClientPortal](t, rec)
	assert.Equal(t, "Acme", portal.Client.Name)
	require.Len(t, portal.Projects, 1)
	assert.Equal(t, project.ID, portal.Projects[0].ID)

	rec = s.do(t, http.MethodGet, "/api/portal/"+project.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortalExport(t *testing.T) {
	s := newTestServer(t)
	client, project, screens := s.seed(t, "Acme", "Home")
	otherClient, otherProject, _ := s.seed(t, "Globex")
	exportPath := "/api/portal/" + client.Token + "/projects/" + project.ID + "/export"

	rec := s.do(t, http.MethodGet, exportPath, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))

	require.Equal(t, http.StatusOK, s.upload(t, screens[0].ID, "desktop", "home.png", []byte("desktop-image")).Code)
	require.Equal(t, http.StatusOK, s.upload(t, screens[0].ID, "mobile", "home.jpg", []byte("mobile-image")).Code)

	rec = s.do(t, http.MethodGet, exportPath, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="Acme site.zip"`)

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	require.NoError(t, err)
	contents := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		contents[f.Name] = string(data)
	}
	assert.Equal(t, map[string]string{
		"Home/desktop.png": "desktop-image",
		"Home/mobile.jpg":  "mobile-image",
	}, contents)

	// A client token only reaches its own projects
	rec = s.do(t, http.MethodGet, "/api/portal/"+otherClient.Token+"/projects/"+project.ID+"/export", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/portal/"+client.Token+"/projects/"+otherProject.ID+"/export", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The operator export needs no client token
	rec = s.admin(t, http.MethodGet, "/api/admin/projects/"+project.ID+"/export", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
