package analyticsmock

import (
	"context"
	"sync"

	domain "disclosure-intake/internal/domain/analytics"
)

var (
	_ domain.Repository = (*Repo)(nil)
	_ domain.Publisher  = (*Publisher)(nil)
)

// Repo records every created event. CreateFn, when set, decides the result.
type Repo struct {
	CreateFn func(ctx context.Context, e *domain.Event) error

	mu     sync.Mutex
	Events []*domain.Event
}

func (m *Repo) Create(ctx context.Context, e *domain.Event) error {
	m.mu.Lock()
	m.Events = append(m.Events, e)
	m.mu.Unlock()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}

// ByType returns the recorded events with the given type, in order.
func (m *Repo) ByType(eventType string) []*domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Event
	for _, e := range m.Events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

type Publisher struct {
	PublishFn func(ctx context.Context, e *domain.Event) error

	mu        sync.Mutex
	Published []*domain.Event
}

func (m *Publisher) Publish(ctx context.Context, e *domain.Event) error {
	m.mu.Lock()
	m.Published = append(m.Published, e)
	m.mu.Unlock()
	if m.PublishFn != nil {
		return m.PublishFn(ctx, e)
	}
	return nil
}
