package handler

import "net/http"

// Middleware wraps a single route
type Middleware func(http.Handler) http.Handler

// Handlers groups every HTTP handler for route registration
type Handlers struct {
	Review   *ReviewHandler
	Portal   *PortalHandler
	Session  *SessionHandler
	Clients  *ClientHandler
	Projects *ProjectHandler
	Screens  *ScreenHandler
	Health   *HealthHandler
}

// Register mounts all routes on mux. Public token routes are wrapped in
// public (rate limiting); operator routes in operator (authentication).
func (h *Handlers) Register(mux *http.ServeMux, public, operator Middleware) {
	pub := func(pattern string, fn http.HandlerFunc) { mux.Handle(pattern, public(fn)) }
	op := func(pattern string, fn http.HandlerFunc) { mux.Handle(pattern, operator(fn)) }

	mux.HandleFunc("GET /health", h.Health.HealthCheck)

	// Public review
	pub("GET /api/review/{token}", h.Review.OpenProject)
	pub("GET /api/review/{token}/votes", h.Review.Votes)
	pub("GET /api/review/{token}/screens/{screenID}/comments", h.Review.ListComments)
	pub("POST /api/review/{token}/screens/{screenID}/comments", h.Review.CreateComment)
	pub("POST /api/review/{token}/screens/{screenID}/vote", h.Review.ToggleVote)
	pub("POST /api/review/{token}/comments/{commentID}/replies", h.Review.Reply)
	pub("POST /api/review/{token}/comments/{commentID}/resolve", h.Review.ToggleResolved)
	pub("PATCH /api/review/{token}/comments/{commentID}", h.Review.EditComment)
	pub("DELETE /api/review/{token}/comments/{commentID}", h.Review.DeleteComment)
	pub("GET /api/review/{token}/identity", h.Review.GetIdentity)
	pub("PUT /api/review/{token}/identity", h.Review.ConfirmIdentity)
	pub("DELETE /api/review/{token}/identity/prompts/{promptID}", h.Review.AbandonPrompt)

	// Client portal
	pub("GET /api/portal/{token}", h.Portal.OpenPortal)
	pub("GET /api/portal/{token}/projects/{projectID}/export", h.Portal.ExportProject)

	// Operator
	pub("POST /api/admin/session", h.Session.Login)
	op("GET /api/admin/session", h.Session.Me)

	op("GET /api/admin/clients", h.Clients.ListClients)
	op("POST /api/admin/clients", h.Clients.CreateClient)
	op("GET /api/admin/clients/{id}", h.Clients.GetClient)
	op("DELETE /api/admin/clients/{id}", h.Clients.DeleteClient)
	op("GET /api/admin/clients/{id}/projects", h.Clients.ListProjects)

	op("POST /api/admin/projects", h.Projects.CreateProject)
	op("GET /api/admin/projects/{id}", h.Projects.GetProject)
	op("PATCH /api/admin/projects/{id}", h.Projects.UpdateProject)
	op("DELETE /api/admin/projects/{id}", h.Projects.DeleteProject)
	op("GET /api/admin/projects/{id}/screens", h.Projects.ListScreens)
	op("GET /api/admin/projects/{id}/export", h.Projects.ExportProject)

	op("POST /api/admin/screens", h.Screens.CreateScreen)
	op("GET /api/admin/screens/{id}", h.Screens.GetScreen)
	op("PATCH /api/admin/screens/{id}", h.Screens.UpdateScreen)
	op("DELETE /api/admin/screens/{id}", h.Screens.DeleteScreen)
	op("PUT /api/admin/screens/{id}/images/{device}", h.Screens.UploadImage)
	op("DELETE /api/admin/screens/{id}/images/{device}", h.Screens.DeleteImage)
	op("POST /api/admin/screens/{id}/reorder", h.Screens.ReorderScreen)
}
