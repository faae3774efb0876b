package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"mockreview/internal/config"
	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
	reviewSvc "mockreview/internal/domain/services/review"
	"mockreview/internal/httputil"
)

// multipartOverhead leaves room for part headers and boundaries
const multipartOverhead = 1 << 20

// ScreenHandler handles operator screen administration
type ScreenHandler struct {
	screens reviewSvc.ScreenService
	logger  *slog.Logger
}

// NewScreenHandler creates a new screen handler
func NewScreenHandler(screens reviewSvc.ScreenService, logger *slog.Logger) *ScreenHandler {
	return &ScreenHandler{
		screens: screens,
		logger:  logger,
	}
}

// CreateScreen appends a screen to a project
// POST /api/admin/screens
func (h *ScreenHandler) CreateScreen(w http.ResponseWriter, r *http.Request) {
	var req reviewSvc.CreateScreenRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, invalidBody(err))
		return
	}

	screen, err := h.screens.CreateScreen(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, screen)
}

// GetScreen retrieves a screen by ID
// GET /api/admin/screens/{id}
func (h *ScreenHandler) GetScreen(w http.ResponseWriter, r *http.Request) {
	screen, err := h.screens.GetScreen(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, screen)
}

// updateScreenRequest is a partial update; absent fields are left alone
// and a null label clears it
type updateScreenRequest struct {
	Name         httputil.OptionalString `json:"name"`
	DesktopLabel httputil.OptionalString `json:"desktop_label"`
	MobileLabel  httputil.OptionalString `json:"mobile_label"`
}

// UpdateScreen renames a screen and sets or clears its device labels
// PATCH /api/admin/screens/{id}
func (h *ScreenHandler) UpdateScreen(w http.ResponseWriter, r *http.Request) {
	var req updateScreenRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, invalidBody(err))
		return
	}

	id := r.PathValue("id")
	screen, err := h.screens.GetScreen(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	if req.Name.Present {
		if req.Name.Value == nil {
			handleError(w, h.logger, fmt.Errorf("%w: name: cannot be null", domain.ErrValidation))
			return
		}
		screen, err = h.screens.RenameScreen(r.Context(), id, &reviewSvc.RenameScreenRequest{Name: *req.Name.Value})
		if err != nil {
			handleError(w, h.logger, err)
			return
		}
	}

	labels := []struct {
		device models.Device
		value  httputil.OptionalString
	}{
		{models.DeviceDesktop, req.DesktopLabel},
		{models.DeviceMobile, req.MobileLabel},
	}
	for _, l := range labels {
		if !l.value.Present {
			continue
		}
		screen, err = h.screens.SetLabel(r.Context(), id, l.device, l.value.Value)
		if err != nil {
			handleError(w, h.logger, err)
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, screen)
}

// UploadImage attaches the multipart "file" part as the device image
// PUT /api/admin/screens/{id}/images/{device}
func (h *ScreenHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	device, err := parseDevice(r.PathValue("device"), false)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxImageUploadBytes+multipartOverhead)
	mr, err := r.MultipartReader()
	if err != nil {
		handleError(w, h.logger, fmt.Errorf("%w: expected multipart/form-data", domain.ErrValidation))
		return
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			handleError(w, h.logger, invalidBody(err))
			return
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}

		url, err := h.screens.AttachImage(r.Context(), &reviewSvc.AttachImageRequest{
			ScreenID:    r.PathValue("id"),
			Device:      device,
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Body:        part,
		})
		part.Close()
		if err != nil {
			handleError(w, h.logger, err)
			return
		}

		httputil.RespondJSON(w, http.StatusOK, map[string]string{"url": url, "device": string(device)})
		return
	}

	handleError(w, h.logger, fmt.Errorf("%w: file part is required", domain.ErrValidation))
}

// DeleteImage detaches the device image
// DELETE /api/admin/screens/{id}/images/{device}
func (h *ScreenHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	device, err := parseDevice(r.PathValue("device"), false)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	screen, err := h.screens.DetachImage(r.Context(), r.PathValue("id"), device)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, screen)
}

type reorderRequest struct {
	Direction string `json:"direction"`
}

// ReorderScreen moves a screen one place up or down
// POST /api/admin/screens/{id}/reorder
func (h *ScreenHandler) ReorderScreen(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, h.logger, invalidBody(err))
		return
	}

	dir, err := reviewSvc.ParseDirection(req.Direction)
	if err != nil {
		handleError(w, h.logger, fmt.Errorf("%w: %v", domain.ErrValidation, err))
		return
	}

	screens, err := h.screens.ReorderScreen(r.Context(), r.PathValue("id"), dir)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, screens)
}

// DeleteScreen removes a screen and its images
// DELETE /api/admin/screens/{id}
func (h *ScreenHandler) DeleteScreen(w http.ResponseWriter, r *http.Request) {
	if err := h.screens.RemoveScreen(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
