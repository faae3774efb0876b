// Package storage provides blob stores for mockup images.
package storage

import (
	"fmt"
	"strings"

	"mockreview/internal/domain"
)

// ValidateKey rejects keys that could escape the bucket or root directory
func ValidateKey(key string) error {
	if key == "" {
		return &domain.ValidationError{Message: "object key cannot be empty"}
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return &domain.ValidationError{Message: fmt.Sprintf("invalid object key %q", key)}
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return &domain.ValidationError{Message: fmt.Sprintf("invalid object key %q", key)}
		}
	}
	return nil
}
