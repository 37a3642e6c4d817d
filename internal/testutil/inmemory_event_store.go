package testutil

import (
	"context"

	"github.com/samber/lo"
	"github.com/skeeterman/lawnbill/internal/domain/subscription"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
)

// InMemorySubscriptionEventStore implements subscription.EventRepository
type InMemorySubscriptionEventStore struct {
	*InMemoryStore[*subscription.Event]
}

// NewInMemorySubscriptionEventStore creates a new in-memory event store
func NewInMemorySubscriptionEventStore() *InMemorySubscriptionEventStore {
	return &InMemorySubscriptionEventStore{
		InMemoryStore: NewInMemoryStore[*subscription.Event](),
	}
}

func copyEvent(e *subscription.Event) *subscription.Event {
	if e == nil {
		return nil
	}
	out := *e
	return &out
}

func (s *InMemorySubscriptionEventStore) Create(ctx context.Context, event *subscription.Event) error {
	return s.InMemoryStore.Create(ctx, event.ID, copyEvent(event))
}

func (s *InMemorySubscriptionEventStore) Get(ctx context.Context, id string) (*subscription.Event, error) {
	event, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("subscription event not found").
			WithHintf("Subscription event %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyEvent(event), nil
}

func (s *InMemorySubscriptionEventStore) ListByCustomer(ctx context.Context, customerID string) ([]*subscription.Event, error) {
	filterFn := func(_ context.Context, e *subscription.Event, _ interface{}) bool {
		return e.CustomerID == customerID
	}
	sortFn := func(i, j *subscription.Event) bool {
		return i.CreatedAt.After(j.CreatedAt)
	}

	items, err := s.InMemoryStore.List(ctx, nil, filterFn, sortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(e *subscription.Event, _ int) *subscription.Event {
		return copyEvent(e)
	}), nil
}
