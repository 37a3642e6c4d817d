package testutil

import (
	"context"

	"github.com/samber/lo"
	"github.com/skeeterman/lawnbill/internal/domain/invoice"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func copyInvoice(i *invoice.Invoice) *invoice.Invoice {
	if i == nil {
		return nil
	}
	out := *i
	if i.DueDate != nil {
		due := *i.DueDate
		out.DueDate = &due
	}
	return &out
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	return s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) GetByGatewayInvoiceID(ctx context.Context, gatewayInvoiceID string) (*invoice.Invoice, error) {
	filterFn := func(_ context.Context, i *invoice.Invoice, _ interface{}) bool {
		return i.Status != types.StatusDeleted && i.GatewayInvoiceID == gatewayInvoiceID
	}

	items, err := s.InMemoryStore.List(ctx, nil, filterFn, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ierr.NewError("invoice not found").
			WithHintf("No local invoice for gateway id %s", gatewayInvoiceID).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(items[0]), nil
}

func (s *InMemoryInvoiceStore) ListByCustomer(ctx context.Context, customerID string) ([]*invoice.Invoice, error) {
	filterFn := func(_ context.Context, i *invoice.Invoice, _ interface{}) bool {
		return i.Status != types.StatusDeleted && i.CustomerID == customerID
	}
	sortFn := func(i, j *invoice.Invoice) bool {
		return i.CreatedAt.After(j.CreatedAt)
	}

	items, err := s.InMemoryStore.List(ctx, nil, filterFn, sortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(i *invoice.Invoice, _ int) *invoice.Invoice {
		return copyInvoice(i)
	}), nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	return s.InMemoryStore.Update(ctx, inv.ID, copyInvoice(inv))
}
