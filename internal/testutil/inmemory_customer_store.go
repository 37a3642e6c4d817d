package testutil

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"github.com/skeeterman/lawnbill/internal/domain/customer"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/types"
	"github.com/samber/lo"
)

// InMemoryCustomerStore implements customer.Repository
type InMemoryCustomerStore struct {
	*InMemoryStore[*customer.Customer]
}

// NewInMemoryCustomerStore creates a new in-memory customer store
func NewInMemoryCustomerStore() *InMemoryCustomerStore {
	return &InMemoryCustomerStore{
		InMemoryStore: NewInMemoryStore[*customer.Customer](),
	}
}

// Helper to copy customer
func copyCustomer(c *customer.Customer) *customer.Customer {
	if c == nil {
		return nil
	}

	out := *c
	out.SelectedAddons = append(pq.StringArray(nil), c.SelectedAddons...)
	out.Metadata = lo.Assign(types.Metadata{}, c.Metadata)
	return &out
}

func (s *InMemoryCustomerStore) Create(ctx context.Context, c *customer.Customer) error {
	return s.InMemoryStore.Create(ctx, c.ID, copyCustomer(c))
}

func (s *InMemoryCustomerStore) Get(ctx context.Context, id string) (*customer.Customer, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("customer not found").
			WithHintf("Customer %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyCustomer(c), nil
}

// GetForUpdate has no row lock to take in memory; tests exercise the
// transition logic, not postgres locking.
func (s *InMemoryCustomerStore) GetForUpdate(ctx context.Context, id string) (*customer.Customer, error) {
	return s.Get(ctx, id)
}

func (s *InMemoryCustomerStore) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	return s.findOne(ctx, func(c *customer.Customer) bool {
		return strings.EqualFold(c.Email, email)
	})
}

func (s *InMemoryCustomerStore) GetByGatewayCustomerID(ctx context.Context, gatewayCustomerID string) (*customer.Customer, error) {
	return s.findOne(ctx, func(c *customer.Customer) bool {
		return c.GatewayCustomerID == gatewayCustomerID
	})
}

func (s *InMemoryCustomerStore) findOne(ctx context.Context, match func(*customer.Customer) bool) (*customer.Customer, error) {
	filterFn := func(_ context.Context, c *customer.Customer, _ interface{}) bool {
		return c.Status != types.StatusDeleted && match(c)
	}

	customers, err := s.InMemoryStore.List(ctx, nil, filterFn, nil)
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, ierr.NewError("customer not found").
			WithHint("No matching customer").
			Mark(ierr.ErrNotFound)
	}
	return copyCustomer(customers[0]), nil
}

func (s *InMemoryCustomerStore) ListWithSubscription(ctx context.Context) ([]*customer.Customer, error) {
	filterFn := func(_ context.Context, c *customer.Customer, _ interface{}) bool {
		return c.Status != types.StatusDeleted && c.GatewaySubscriptionID != ""
	}

	items, err := s.InMemoryStore.List(ctx, nil, filterFn, customerSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(c *customer.Customer, _ int) *customer.Customer {
		return copyCustomer(c)
	}), nil
}

func (s *InMemoryCustomerStore) List(ctx context.Context) ([]*customer.Customer, error) {
	filterFn := func(_ context.Context, c *customer.Customer, _ interface{}) bool {
		return c.Status != types.StatusDeleted
	}

	items, err := s.InMemoryStore.List(ctx, nil, filterFn, customerSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(c *customer.Customer, _ int) *customer.Customer {
		return copyCustomer(c)
	}), nil
}

func (s *InMemoryCustomerStore) Count(ctx context.Context) (int, error) {
	filterFn := func(_ context.Context, c *customer.Customer, _ interface{}) bool {
		return c.Status != types.StatusDeleted
	}
	return s.InMemoryStore.Count(ctx, nil, filterFn)
}

func (s *InMemoryCustomerStore) Update(ctx context.Context, c *customer.Customer) error {
	return s.InMemoryStore.Update(ctx, c.ID, copyCustomer(c))
}

func (s *InMemoryCustomerStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

// customerSortFn sorts customers by created_at ascending, matching the
// scheduler's stable processing order
func customerSortFn(i, j *customer.Customer) bool {
	return i.CreatedAt.Before(j.CreatedAt)
}
