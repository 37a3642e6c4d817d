package subscription

import (
	"context"
)

// EventRepository defines the interface for the append-only audit log.
// There is no update or delete: events are immutable facts.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	Get(ctx context.Context, id string) (*Event, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Event, error)
}
