package analytics

import "context"

type Repository interface {
	Create(ctx context.Context, e *Event) error
}

// Publisher forwards stored events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, e *Event) error
}
