package review

import (
	"errors"
	"strings"
)

// DisplayName is a self-asserted reviewer name. It is trimmed and never
// empty; no uniqueness is implied.
type DisplayName string

var errEmptyName = errors.New("name cannot be empty")

// NewDisplayName trims raw and rejects empty results.
func NewDisplayName(raw string) (DisplayName, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", errEmptyName
	}
	return DisplayName(name), nil
}

func (n DisplayName) String() string { return string(n) }
