package handler

import (
	"log/slog"
	"net/http"

	reviewSvc "mockreview/internal/domain/services/review"
	"mockreview/internal/httputil"
)

// PortalHandler serves the client-scoped portal
type PortalHandler struct {
	access reviewSvc.AccessGateway
	export reviewSvc.ExportService
	logger *slog.Logger
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(access reviewSvc.AccessGateway, export reviewSvc.ExportService, logger *slog.Logger) *PortalHandler {
	return &PortalHandler{
		access: access,
		export: export,
		logger: logger,
	}
}

// OpenPortal lists the client's projects, newest first
// GET /api/portal/{token}
func (h *PortalHandler) OpenPortal(w http.ResponseWriter, r *http.Request) {
	portal, err := h.access.OpenClient(r.Context(), r.PathValue("token"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, portal)
}

// ExportProject downloads a ZIP of the project's mockups
// GET /api/portal/{token}/projects/{projectID}/export
func (h *PortalHandler) ExportProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.access.AdmitClientProject(r.Context(), r.PathValue("token"), r.PathValue("projectID"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	out := newAttachmentWriter(w, project.Name)
	if err := h.export.ExportProject(r.Context(), project.ID, out); err != nil {
		if out.started {
			// Headers are gone; the truncated archive is all the client gets
			h.logger.Error("export interrupted", "project_id", project.ID, "error", err)
			return
		}
		handleError(w, h.logger, err)
	}
}
