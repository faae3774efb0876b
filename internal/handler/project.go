package handler

import (
	"log/slog"
	"net/http"

	reviewSvc "mockreview/internal/domain/services/review"
	"mockreview/internal/httputil"
)

// ProjectHandler handles operator project administration
type ProjectHandler struct {
	catalog reviewSvc.CatalogService
	screens reviewSvc.ScreenService
	export  reviewSvc.ExportService
	logger  *slog.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(
	catalog reviewSvc.CatalogService,
	screens reviewSvc.ScreenService,
	export reviewSvc.ExportService,
	logger *slog.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		catalog: catalog,
		screens: screens,
		export:  export,
		logger:  logger,
	}
}

// CreateProject creates a project under a client
// POST /api/admin/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req reviewSvc.CreateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, invalidBody(err))
		return
	}

	project, err := h.catalog.CreateProject(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, project)
}

// GetProject returns the project with its screens and vote statistics
// GET /api/admin/projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalog.ProjectDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, detail)
}

// UpdateProject renames a project
// PATCH /api/admin/projects/{id}
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req reviewSvc.UpdateProjectRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, invalidBody(err))
		return
	}

	project, err := h.catalog.UpdateProject(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, project)
}

// DeleteProject deletes a project, its screens and their images
// DELETE /api/admin/projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListScreens returns the project's screens in display order
// GET /api/admin/projects/{id}/screens
func (h *ProjectHandler) ListScreens(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.catalog.GetProject(r.Context(), id); err != nil {
		handleError(w, h.logger, err)
		return
	}

	screens, err := h.screens.ListScreens(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, screens)
}

// ExportProject downloads a ZIP of the project's mockups
// GET /api/admin/projects/{id}/export
func (h *ProjectHandler) ExportProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.catalog.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	out := newAttachmentWriter(w, project.Name)
	if err := h.export.ExportProject(r.Context(), project.ID, out); err != nil {
		if out.started {
			h.logger.Error("export interrupted", "project_id", project.ID, "error", err)
			return
		}
		handleError(w, h.logger, err)
	}
}
