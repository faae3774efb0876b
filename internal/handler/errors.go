package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"mockreview/internal/domain"
	"mockreview/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Server-side
// failures are logged; client errors are not.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		promptErr   *domain.NamePromptError
		conflictErr *domain.ConflictError
		tooLarge    *http.MaxBytesError
	)

	switch {
	case errors.As(err, &promptErr):
		httputil.RespondErrorWithExtras(w, http.StatusPreconditionRequired, promptErr.Error(), map[string]interface{}{
			"prompt_id": promptErr.PromptID,
		})
	case errors.As(err, &tooLarge):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		logger.Warn("store unavailable", "error", err)
		httputil.RespondError(w, http.StatusServiceUnavailable, "storage temporarily unavailable")
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
