package testutil

import (
	"context"

	"github.com/samber/lo"
	"github.com/skeeterman/lawnbill/internal/domain/billing"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/types"
)

// InMemoryBillingAttemptStore implements billing.AttemptRepository
type InMemoryBillingAttemptStore struct {
	*InMemoryStore[*billing.Attempt]
}

// NewInMemoryBillingAttemptStore creates a new in-memory billing attempt store
func NewInMemoryBillingAttemptStore() *InMemoryBillingAttemptStore {
	return &InMemoryBillingAttemptStore{
		InMemoryStore: NewInMemoryStore[*billing.Attempt](),
	}
}

func copyAttempt(a *billing.Attempt) *billing.Attempt {
	if a == nil {
		return nil
	}
	out := *a
	out.Items = append(billing.LineItems(nil), a.Items...)
	return &out
}

func (s *InMemoryBillingAttemptStore) Create(ctx context.Context, attempt *billing.Attempt) error {
	return s.InMemoryStore.Create(ctx, attempt.ID, copyAttempt(attempt))
}

func (s *InMemoryBillingAttemptStore) ListByCustomer(ctx context.Context, customerID string) ([]*billing.Attempt, error) {
	filterFn := func(_ context.Context, a *billing.Attempt, _ interface{}) bool {
		return a.Status != types.StatusDeleted && a.CustomerID == customerID
	}
	sortFn := func(i, j *billing.Attempt) bool {
		return i.CreatedAt.After(j.CreatedAt)
	}

	items, err := s.InMemoryStore.List(ctx, nil, filterFn, sortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(a *billing.Attempt, _ int) *billing.Attempt {
		return copyAttempt(a)
	}), nil
}

// InMemoryPaymentMethodStore implements billing.PaymentMethodRepository
type InMemoryPaymentMethodStore struct {
	*InMemoryStore[*billing.PaymentMethod]
}

// NewInMemoryPaymentMethodStore creates a new in-memory payment method store
func NewInMemoryPaymentMethodStore() *InMemoryPaymentMethodStore {
	return &InMemoryPaymentMethodStore{
		InMemoryStore: NewInMemoryStore[*billing.PaymentMethod](),
	}
}

func copyPaymentMethod(m *billing.PaymentMethod) *billing.PaymentMethod {
	if m == nil {
		return nil
	}
	out := *m
	return &out
}

func (s *InMemoryPaymentMethodStore) Create(ctx context.Context, method *billing.PaymentMethod) error {
	return s.InMemoryStore.Create(ctx, method.ID, copyPaymentMethod(method))
}

func (s *InMemoryPaymentMethodStore) Get(ctx context.Context, id string) (*billing.PaymentMethod, error) {
	method, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("payment method not found").
			WithHintf("Payment method %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyPaymentMethod(method), nil
}

func (s *InMemoryPaymentMethodStore) GetDefaultByCustomer(ctx context.Context, customerID string) (*billing.PaymentMethod, error) {
	filterFn := func(_ context.Context, m *billing.PaymentMethod, _ interface{}) bool {
		return m.Status != types.StatusDeleted && m.CustomerID == customerID && m.IsDefault
	}

	items, err := s.InMemoryStore.List(ctx, nil, filterFn, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ierr.NewError("no default payment method").
			WithHint("Customer has no card on file").
			Mark(ierr.ErrNoPaymentMethod)
	}
	return copyPaymentMethod(items[0]), nil
}

func (s *InMemoryPaymentMethodStore) ListByCustomer(ctx context.Context, customerID string) ([]*billing.PaymentMethod, error) {
	filterFn := func(_ context.Context, m *billing.PaymentMethod, _ interface{}) bool {
		return m.Status != types.StatusDeleted && m.CustomerID == customerID
	}
	sortFn := func(i, j *billing.PaymentMethod) bool {
		return i.CreatedAt.After(j.CreatedAt)
	}

	items, err := s.InMemoryStore.List(ctx, nil, filterFn, sortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(m *billing.PaymentMethod, _ int) *billing.PaymentMethod {
		return copyPaymentMethod(m)
	}), nil
}

func (s *InMemoryPaymentMethodStore) ClearDefault(ctx context.Context, customerID string) error {
	methods, err := s.ListByCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	for _, m := range methods {
		if m.IsDefault {
			m.IsDefault = false
			if err := s.InMemoryStore.Update(ctx, m.ID, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *InMemoryPaymentMethodStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

// InMemoryPaymentStore implements billing.PaymentRepository
type InMemoryPaymentStore struct {
	*InMemoryStore[*billing.Payment]
}

// NewInMemoryPaymentStore creates a new in-memory payment store
func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*billing.Payment](),
	}
}

func copyPayment(p *billing.Payment) *billing.Payment {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, payment *billing.Payment) error {
	return s.InMemoryStore.Create(ctx, payment.ID, copyPayment(payment))
}

func (s *InMemoryPaymentStore) ListByCustomer(ctx context.Context, customerID string) ([]*billing.Payment, error) {
	filterFn := func(_ context.Context, p *billing.Payment, _ interface{}) bool {
		return p.Status != types.StatusDeleted && p.CustomerID == customerID
	}
	sortFn := func(i, j *billing.Payment) bool {
		return i.CreatedAt.After(j.CreatedAt)
	}

	items, err := s.InMemoryStore.List(ctx, nil, filterFn, sortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(p *billing.Payment, _ int) *billing.Payment {
		return copyPayment(p)
	}), nil
}
