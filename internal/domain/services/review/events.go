package review

import (
	"context"

	"mockreview/internal/domain/models/review"
)

// EventPublisher delivers review activity to interested parties.
// Publishing never affects the outcome of the mutation that caused it.
type EventPublisher interface {
	Publish(ctx context.Context, event review.Event) error
}
