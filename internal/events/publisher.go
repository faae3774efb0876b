package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	models "mockreview/internal/domain/models/review"
	reviewSvc "mockreview/internal/domain/services/review"

	"github.com/prometheus/client_golang/prometheus"
)

// CounterPublisher counts events by type
type CounterPublisher struct {
	counter *prometheus.CounterVec
}

// NewCounterPublisher counts into a vector labelled by "type"
func NewCounterPublisher(counter *prometheus.CounterVec) *CounterPublisher {
	return &CounterPublisher{counter: counter}
}

func (c *CounterPublisher) Publish(_ context.Context, event models.Event) error {
	c.counter.WithLabelValues(string(event.Type)).Inc()
	return nil
}

// Sink is a named destination for Fanout
type Sink struct {
	Name      string
	Publisher reviewSvc.EventPublisher
}

// Fanout delivers each event to every sink. A failing sink does not stop
// the others; failures are counted and joined into the returned error.
type Fanout struct {
	sinks    []Sink
	failures *prometheus.CounterVec
	logger   *slog.Logger
}

// NewFanout creates a fanout publisher. failures may be nil.
func NewFanout(failures *prometheus.CounterVec, logger *slog.Logger, sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks, failures: failures, logger: logger}
}

func (f *Fanout) Publish(ctx context.Context, event models.Event) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Publisher.Publish(ctx, event); err != nil {
			if f.failures != nil {
				f.failures.WithLabelValues(sink.Name).Inc()
			}
			f.logger.Debug("event sink failed", "sink", sink.Name, "type", event.Type, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name, err))
		}
	}
	return errors.Join(errs...)
}
