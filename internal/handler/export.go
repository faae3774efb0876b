package handler

import (
	"fmt"
	"net/http"

	"mockreview/internal/utils"
)

// attachmentWriter sends download headers on the first write, so an
// export that fails before producing output can still answer with an
// error response.
type attachmentWriter struct {
	w        http.ResponseWriter
	filename string
	started  bool
}

func newAttachmentWriter(w http.ResponseWriter, projectName string) *attachmentWriter {
	return &attachmentWriter{
		w:        w,
		filename: utils.SafeEntryName(projectName, "mockups") + ".zip",
	}
}

func (a *attachmentWriter) Write(p []byte) (int, error) {
	if !a.started {
		a.started = true
		h := a.w.Header()
		h.Set("Content-Type", "application/zip")
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.filename))
		a.w.WriteHeader(http.StatusOK)
	}
	return a.w.Write(p)
}
