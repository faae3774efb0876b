package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
	reviewSvc "mockreview/internal/domain/services/review"
	"mockreview/internal/httputil"
)

// ReviewHandler serves the public, token-scoped review routes. Every
// sub-resource is admitted through the access gateway first.
type ReviewHandler struct {
	access       reviewSvc.AccessGateway
	annotation   reviewSvc.AnnotationService
	voting       reviewSvc.VotingService
	identity     reviewSvc.IdentityResolver
	cookieSecure bool
	logger       *slog.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(
	access reviewSvc.AccessGateway,
	annotation reviewSvc.AnnotationService,
	voting reviewSvc.VotingService,
	identity reviewSvc.IdentityResolver,
	cookieSecure bool,
	logger *slog.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		access:       access,
		annotation:   annotation,
		voting:       voting,
		identity:     identity,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

func (h *ReviewHandler) names(w http.ResponseWriter, r *http.Request) reviewSvc.NameStore {
	return httputil.NewCookieNameStore(w, r, h.cookieSecure)
}

// OpenProject returns the project, its screens and votes
// GET /api/review/{token}
func (h *ReviewHandler) OpenProject(w http.ResponseWriter, r *http.Request) {
	session, err := h.access.OpenProject(r.Context(), r.PathValue("token"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, session)
}

// threadsResponse is the numbered thread listing for one device
type threadsResponse struct {
	Device  models.Device   `json:"device"`
	Threads []models.Thread `json:"threads"`
}

// ListComments returns the numbered threads for a device
// GET /api/review/{token}/screens/{screenID}/comments?device=
func (h *ReviewHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	device, err := parseDevice(r.URL.Query().Get("device"), true)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	_, screen, err := h.access.AdmitScreen(r.Context(), r.PathValue("token"), r.PathValue("screenID"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	threads, err := h.annotation.ListForDevice(r.Context(), screen.ID, device)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, threadsResponse{Device: device, Threads: threads.Collect()})
}

// createCommentRequest is a placed draft plus its text
type createCommentRequest struct {
	DeviceType string   `json:"device_type"`
	XPosition  *float64 `json:"x_position"`
	YPosition  *float64 `json:"y_position"`
	Content    string   `json:"content"`
}

// CreateComment places and submits a root comment
// POST /api/review/{token}/screens/{screenID}/comments
// Returns 428 with a prompt_id when the reviewer has no name yet
func (h *ReviewHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, invalidBody(err))
		return
	}

	device, err := parseDevice(req.DeviceType, true)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	_, screen, err := h.access.AdmitScreen(r.Context(), r.PathValue("token"), r.PathValue("screenID"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := requirePosition(req.XPosition, req.YPosition); err != nil {
		handleError(w, h.logger, err)
		return
	}
	draft, err := h.annotation.Place(screen.ID, device, *req.XPosition, *req.YPosition)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if err := requireContent(req.Content); err != nil {
		handleError(w, h.logger, err)
		return
	}

	comment, err := h.identity.ResolveOrPrompt(r.Context(), h.names(w, r), func(ctx context.Context, name models.DisplayName) (any, error) {
		return h.annotation.Submit(ctx, draft, name, req.Content)
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, comment)
}

// contentRequest carries comment or reply text
type contentRequest struct {
	Content string `json:"content"`
}

// Reply adds a reply to a root comment
// POST /api/review/{token}/comments/{commentID}/replies
func (h *ReviewHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, invalidBody(err))
		return
	}

	_, parent, err := h.access.AdmitComment(r.Context(), r.PathValue("token"), r.PathValue("commentID"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if err := requireContent(req.Content); err != nil {
		handleError(w, h.logger, err)
		return
	}

	reply, err := h.identity.ResolveOrPrompt(r.Context(), h.names(w, r), func(ctx context.Context, name models.DisplayName) (any, error) {
		return h.annotation.Reply(ctx, parent.ID, name, req.Content)
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, reply)
}

// ToggleResolved flips a root comment between resolved and open
// POST /api/review/{token}/comments/{commentID}/resolve
func (h *ReviewHandler) ToggleResolved(w http.ResponseWriter, r *http.Request) {
	_, comment, err := h.access.AdmitComment(r.Context(), r.PathValue("token"), r.PathValue("commentID"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	updated, err := h.annotation.ToggleResolved(r.Context(), comment.ID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, updated)
}

// EditComment replaces a comment's text
// PATCH /api/review/{token}/comments/{commentID}
func (h *ReviewHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, invalidBody(err))
		return
	}

	_, comment, err := h.access.AdmitComment(r.Context(), r.PathValue("token"), r.PathValue("commentID"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	updated, err := h.annotation.Edit(r.Context(), comment.ID, req.Content)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, updated)
}

// DeleteComment removes a comment and, for a root, its replies
// DELETE /api/review/{token}/comments/{commentID}
func (h *ReviewHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	_, comment, err := h.access.AdmitComment(r.Context(), r.PathValue("token"), r.PathValue("commentID"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := h.annotation.Delete(r.Context(), comment.ID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleVote likes or unlikes a screen as the current reviewer
// POST /api/review/{token}/screens/{screenID}/vote
func (h *ReviewHandler) ToggleVote(w http.ResponseWriter, r *http.Request) {
	_, screen, err := h.access.AdmitScreen(r.Context(), r.PathValue("token"), r.PathValue("screenID"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	result, err := h.identity.ResolveOrPrompt(r.Context(), h.names(w, r), func(ctx context.Context, name models.DisplayName) (any, error) {
		return h.voting.Toggle(ctx, screen.ID, name)
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// votesResponse is the project tally plus the screens the caller liked
type votesResponse struct {
	Summary *models.VoteSummary `json:"summary"`
	Voted   []string            `json:"voted_screen_ids"`
}

// Votes returns the vote summary for the project
// GET /api/review/{token}/votes
func (h *ReviewHandler) Votes(w http.ResponseWriter, r *http.Request) {
	session, err := h.access.OpenProject(r.Context(), r.PathValue("token"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	summary, err := h.voting.Summary(r.Context(), session.Screens)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	voted := []string{}
	if name, ok, _ := h.names(w, r).Load(r.Context()); ok {
		seen := make(map[string]bool)
		for _, v := range session.Votes {
			if v.VoterName == string(name) && !seen[v.ScreenID] {
				seen[v.ScreenID] = true
				voted = append(voted, v.ScreenID)
			}
		}
	}

	httputil.RespondJSON(w, http.StatusOK, votesResponse{Summary: summary, Voted: voted})
}

// identityResponse reports the reviewer's stored name
type identityResponse struct {
	Name   string `json:"name,omitempty"`
	Known  bool   `json:"known"`
	Result any    `json:"result,omitempty"`
}

// GetIdentity reports whether the browser already has a reviewer name
// GET /api/review/{token}/identity
func (h *ReviewHandler) GetIdentity(w http.ResponseWriter, r *http.Request) {
	if _, err := h.access.OpenProject(r.Context(), r.PathValue("token")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	name, ok, err := h.names(w, r).Load(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, identityResponse{Name: string(name), Known: ok})
}

// confirmIdentityRequest sets the name and optionally replays a prompt
type confirmIdentityRequest struct {
	Name     string `json:"name"`
	PromptID string `json:"prompt_id"`
}

// ConfirmIdentity stores the reviewer name and runs the parked action, if any
// PUT /api/review/{token}/identity
func (h *ReviewHandler) ConfirmIdentity(w http.ResponseWriter, r *http.Request) {
	var req confirmIdentityRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, invalidBody(err))
		return
	}

	if _, err := h.access.OpenProject(r.Context(), r.PathValue("token")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	name, result, err := h.identity.Confirm(r.Context(), h.names(w, r), req.PromptID, req.Name)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, identityResponse{Name: string(name), Known: true, Result: result})
}

// AbandonPrompt drops a parked action
// DELETE /api/review/{token}/identity/prompts/{promptID}
func (h *ReviewHandler) AbandonPrompt(w http.ResponseWriter, r *http.Request) {
	if _, err := h.access.OpenProject(r.Context(), r.PathValue("token")); err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.identity.Abandon(r.PathValue("promptID"))
	w.WriteHeader(http.StatusNoContent)
}

// requireContent rejects blank text before a name prompt is issued
// requirePosition rejects a pin with a missing coordinate instead of
// dropping it at the origin
func requirePosition(x, y *float64) error {
	switch {
	case x == nil:
		return fmt.Errorf("%w: x_position: is required", domain.ErrValidation)
	case y == nil:
		return fmt.Errorf("%w: y_position: is required", domain.ErrValidation)
	}
	return nil
}

func requireContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content: cannot be empty", domain.ErrValidation)
	}
	return nil
}
