package customer

import (
	"context"
)

// Repository defines the interface for customer data access
type Repository interface {
	Create(ctx context.Context, customer *Customer) error
	Get(ctx context.Context, id string) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	GetByGatewayCustomerID(ctx context.Context, gatewayCustomerID string) (*Customer, error)

	// ListWithSubscription returns all customers holding a remote
	// subscription id, the working set of the monthly scheduler.
	ListWithSubscription(ctx context.Context) ([]*Customer, error)

	List(ctx context.Context) ([]*Customer, error)
	Count(ctx context.Context) (int, error)

	// Update persists the full customer row. Lifecycle mutations must run
	// inside a transaction holding the customer's row lock; see
	// postgres.IClient.WithTx and GetForUpdate.
	Update(ctx context.Context, customer *Customer) error

	// GetForUpdate reads the customer with a row-level lock so concurrent
	// webhook and scheduler transitions on the same customer serialize.
	GetForUpdate(ctx context.Context, id string) (*Customer, error)

	Delete(ctx context.Context, id string) error
}
