package gateway

import (
	"context"
)

// Gateway is the payment gateway boundary. Every operation returns an
// explicit typed result decoded once at this boundary; callers never see the
// gateway's raw payloads.
//
// Error contract, matching the application taxonomy:
//   - a structured rejection from the gateway is surfaced marked
//     ierr.ErrGatewayRejected with the gateway's detail verbatim in the hint
//   - an unreachable gateway or a timed-out call is surfaced marked
//     ierr.ErrGatewayTimeout; the outcome is unknown and callers must not
//     advance local state
type Gateway interface {
	// CreateCustomer registers the customer at the gateway
	CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*CreateCustomerResult, error)

	// CreateCardOnFile saves a payment method for future charges
	CreateCardOnFile(ctx context.Context, req *CreateCardRequest) (*CreateCardResult, error)

	// CreateOrder creates an order (template) from line items
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResult, error)

	// CreateSubscription starts a remote subscription
	CreateSubscription(ctx context.Context, req *CreateSubscriptionRequest) (*SubscriptionResult, error)

	// SwapSubscriptionPlan changes the plan of an existing remote subscription
	SwapSubscriptionPlan(ctx context.Context, req *SwapPlanRequest) (*SubscriptionResult, error)

	// PauseSubscription pauses the remote subscription
	PauseSubscription(ctx context.Context, subscriptionID string) (*SubscriptionResult, error)

	// ResumeSubscription resumes the remote subscription
	ResumeSubscription(ctx context.Context, subscriptionID string) (*SubscriptionResult, error)

	// CancelSubscription cancels the remote subscription
	CancelSubscription(ctx context.Context, subscriptionID string) (*SubscriptionResult, error)

	// Charge takes an immediate payment from a saved source
	Charge(ctx context.Context, req *ChargeRequest) (*ChargeResult, error)

	// GetCatalogPrices returns live prices by variation id
	GetCatalogPrices(ctx context.Context, variationIDs []string) (map[string]int64, error)

	// ListInvoices returns the gateway-hosted invoices for a customer
	ListInvoices(ctx context.Context, gatewayCustomerID string) ([]*InvoiceResult, error)
}
