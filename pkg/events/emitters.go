package events

import (
	"context"
	"log/slog"
	"sync"
)

// NoOpEmitter is an emitter that does nothing.
type NoOpEmitter struct{}

// Emit does nothing.
func (e *NoOpEmitter) Emit(ctx context.Context, event Event) error {
	return nil
}

// LogEmitter writes every event to a structured logger. It stands in for
// the notification/trust-score collaborators in single-process deployments.
type LogEmitter struct {
	Logger *slog.Logger
}

// NewLogEmitter creates a LogEmitter. A nil logger falls back to the
// default slog logger.
func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEmitter{Logger: logger}
}

// Emit logs the event.
func (e *LogEmitter) Emit(ctx context.Context, event Event) error {
	e.Logger.InfoContext(ctx, "domain event",
		"type", string(event.Type),
		"deal_id", event.DealID,
		"payload", event.Payload,
	)
	return nil
}

// Recorder captures emitted events for assertions in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit records the event.
func (r *Recorder) Emit(ctx context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
