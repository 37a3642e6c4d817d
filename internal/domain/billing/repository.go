package billing

import (
	"context"
)

// AttemptRepository defines data access for billing attempts. Attempts are
// immutable records of charge outcomes and are never updated after creation.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *Attempt) error
	ListByCustomer(ctx context.Context, customerID string) ([]*Attempt, error)
}

// PaymentMethodRepository defines data access for saved cards
type PaymentMethodRepository interface {
	Create(ctx context.Context, method *PaymentMethod) error
	Get(ctx context.Context, id string) (*PaymentMethod, error)
	GetDefaultByCustomer(ctx context.Context, customerID string) (*PaymentMethod, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*PaymentMethod, error)

	// ClearDefault unsets is_default on all of the customer's cards, ahead
	// of saving a new default.
	ClearDefault(ctx context.Context, customerID string) error

	Delete(ctx context.Context, id string) error
}

// PaymentRepository defines data access for local payment records
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	ListByCustomer(ctx context.Context, customerID string) ([]*Payment, error)
}
