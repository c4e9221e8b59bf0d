package audit

import (
	"context"
	"time"

	id "vaultly/pkg/domain"
)

// Sink receives audit events. Implementations must tolerate being called
// from request paths, so Emit should be fast or hand off to a worker.
type Sink interface {
	Emit(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

func (p *Publisher) List(ctx context.Context, accountID id.AccountID) ([]Event, error) {
	return p.store.ListByAccount(ctx, accountID)
}

// Discard drops all events. Used when auditing is disabled in configuration.
type Discard struct{}

func (Discard) Emit(context.Context, Event) error { return nil }
