package review

import (
	"fmt"
	"strings"

	"mockreview/internal/domain"
	models "mockreview/internal/domain/models/review"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// notBlank rejects strings that are empty after trimming
func notBlank(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

// nameRules validates a required, trimmed, bounded name
func nameRules(max int) []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.By(notBlank),
		validation.RuneLength(1, max),
	}
}

func deviceRule(value interface{}) error {
	d, ok := value.(models.Device)
	if !ok || !d.Valid() {
		return fmt.Errorf("must be desktop or mobile")
	}
	return nil
}

func positionRule(value interface{}) error {
	v, ok := value.(float64)
	if !ok || !models.ValidPosition(v) {
		return fmt.Errorf("must be between 0 and 100")
	}
	return nil
}

// invalid wraps a validation failure as a domain error
func invalid(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}
