package invoice

import (
	"context"
)

// Repository defines the interface for local invoice data access
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByGatewayInvoiceID(ctx context.Context, gatewayInvoiceID string) (*Invoice, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Invoice, error)

	// Update refreshes status, amount and public URL from a gateway sync
	Update(ctx context.Context, inv *Invoice) error
}
