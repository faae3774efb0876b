package handler

import (
	"fmt"

	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"
)

// parseDevice reads a device from a path or query value. Empty means
// desktop when allowEmpty is set.
func parseDevice(raw string, allowEmpty bool) (models.Device, error) {
	if raw == "" && allowEmpty {
		return models.DeviceDesktop, nil
	}
	d, err := models.ParseDevice(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return d, nil
}

// invalidBody wraps a JSON decode failure as a validation error, keeping
// the cause so an oversized body still maps to 413
func invalidBody(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrValidation, err)
}
