// Package events publishes domain events after successful writes.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/hustle/internal/logger"
)

// Event types double as AMQP routing keys.
const (
	TaskCreated           = "task.created"
	TaskCompletionChanged = "task.completion_changed"
	HourlyTaskCreated     = "hourly_task.created"
	HourlyTaskCompletion  = "hourly_task.completion_changed"
	HabitCreated          = "habit.created"
	HabitDeleted          = "habit.deleted"
	HabitProgressToggled  = "habit.progress_toggled"
	ReflectionSaved       = "reflection.saved"
)

type Event struct {
	Type       string    `json:"type"`
	Owner      string    `json:"owner"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

func New(eventType, owner string, data any) Event {
	return Event{Type: eventType, Owner: owner, OccurredAt: time.Now().UTC(), Data: data}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Emit publishes e and logs, rather than returns, any failure. The write that
// produced the event has already succeeded.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		logger.Warn("failed to publish event", "type", e.Type, "owner", e.Owner, "error", err)
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types lists the published event types in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
