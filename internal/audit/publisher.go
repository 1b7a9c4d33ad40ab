package audit

import (
	"context"
	"sync"

	"innovation-admin/pkg/requestcontext"
)

// Publisher is the sink domain services emit audit events to.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// enrich fills event fields that are derivable from context.
func enrich(ctx context.Context, event Event) Event {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ActorID.IsNil() {
		event.ActorID = requestcontext.ActorID(ctx)
	}
	return event
}

// MemoryPublisher buffers events in memory. Used in tests and the dev
// profile when no broker is configured.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Emit(ctx context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, enrich(ctx, event))
	return nil
}

// Events returns a copy of everything emitted so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}
