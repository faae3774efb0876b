package handler

import (
	"log/slog"
	"net/http"

	reviewSvc "mockreview/internal/domain/services/review"
	"mockreview/internal/httputil"
)

// ClientHandler handles operator client administration
type ClientHandler struct {
	catalog reviewSvc.CatalogService
	logger  *slog.Logger
}

// NewClientHandler creates a new client handler
func NewClientHandler(catalog reviewSvc.CatalogService, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// ListClients returns every client ordered by name
// GET /api/admin/clients
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.catalog.ListClients(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, clients)
}

// CreateClient creates a client with a fresh portal token
// POST /api/admin/clients
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req reviewSvc.CreateClientRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, invalidBody(err))
		return
	}

	client, err := h.catalog.CreateClient(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, client)
}

// GetClient retrieves a client by ID
// GET /api/admin/clients/{id}
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.catalog.GetClient(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, client)
}

// ListProjects returns the client's projects, newest first
// GET /api/admin/clients/{id}/projects
func (h *ClientHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.catalog.ListProjects(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, projects)
}

// DeleteClient deletes a client with its projects and their images
// DELETE /api/admin/clients/{id}
func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteClient(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
