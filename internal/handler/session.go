package handler

import (
	"log/slog"
	"net/http"

	"mockreview/internal/auth"
	"mockreview/internal/httputil"
)

// SessionIssuer exchanges the operator password for a session token
type SessionIssuer interface {
	Login(password string) (*auth.SessionToken, error)
}

// SessionHandler handles operator login
type SessionHandler struct {
	sessions SessionIssuer
	logger   *slog.Logger
}

// NewSessionHandler creates a new session handler. sessions may be nil
// when password login is not configured.
func NewSessionHandler(sessions SessionIssuer, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login issues an operator session token
// POST /api/admin/session
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		httputil.RespondError(w, http.StatusServiceUnavailable, "password login is not configured")
		return
	}

	var req loginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, invalidBody(err))
		return
	}

	token, err := h.sessions.Login(req.Password)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, token)
}

// Me returns the authenticated operator
// GET /api/admin/session
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := httputil.GetOperator(r)
	if claims == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"id":    claims.OperatorID(),
		"email": claims.Email,
		"role":  claims.Role,
	})
}
