package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/skeeterman/lawnbill/internal/domain/gateway"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
)

// Operation names for error injection on the mock gateway
const (
	OpCreateCustomer = "create_customer"
	OpCreateCard     = "create_card"
	OpCreateOrder    = "create_order"
	OpCreateSub      = "create_subscription"
	OpSwapPlan       = "swap_plan"
	OpPauseSub       = "pause_subscription"
	OpResumeSub      = "resume_subscription"
	OpCancelSub      = "cancel_subscription"
	OpCharge         = "charge"
	OpCatalogPrices  = "catalog_prices"
	OpListInvoices   = "list_invoices"
)

// GatewayRejectedErr builds the error a structured gateway decline surfaces as
func GatewayRejectedErr(detail string) error {
	return ierr.NewError("gateway rejected request").
		WithHint(detail).
		Mark(ierr.ErrGatewayRejected)
}

// GatewayTimeoutErr builds the error an unreachable gateway surfaces as
func GatewayTimeoutErr() error {
	return ierr.NewError("gateway request timed out").
		WithHint("The payment gateway did not respond").
		Mark(ierr.ErrGatewayTimeout)
}

// MockGateway implements gateway.Gateway for tests. Each operation can be
// made to fail by name, and every request is recorded for assertions.
type MockGateway struct {
	mu sync.Mutex

	errs  map[string]error
	calls map[string]int

	// CatalogPrices backs GetCatalogPrices, keyed by variation id
	CatalogPrices map[string]int64

	// Invoices backs ListInvoices, keyed by gateway customer id
	Invoices map[string][]*gateway.InvoiceResult

	// ChargeRequests records every Charge call in order
	ChargeRequests []*gateway.ChargeRequest

	// SwapRequests records every SwapSubscriptionPlan call in order
	SwapRequests []*gateway.SwapPlanRequest

	seq int
}

// NewMockGateway creates a new mock gateway
func NewMockGateway() *MockGateway {
	return &MockGateway{
		errs:          make(map[string]error),
		calls:         make(map[string]int),
		CatalogPrices: make(map[string]int64),
		Invoices:      make(map[string][]*gateway.InvoiceResult),
	}
}

// FailWith makes the named operation return the given error
func (g *MockGateway) FailWith(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs[op] = err
}

// Succeed clears any injected error for the named operation
func (g *MockGateway) Succeed(op string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.errs, op)
}

// Calls returns how many times the named operation was invoked
func (g *MockGateway) Calls(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *MockGateway) begin(op string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[op]++
	return g.errs[op]
}

func (g *MockGateway) nextID(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%d", prefix, g.seq)
}

func (g *MockGateway) CreateCustomer(ctx context.Context, req *gateway.CreateCustomerRequest) (*gateway.CreateCustomerResult, error) {
	if err := g.begin(OpCreateCustomer); err != nil {
		return nil, err
	}
	return &gateway.CreateCustomerResult{CustomerID: g.nextID("gw-cust")}, nil
}

func (g *MockGateway) CreateCardOnFile(ctx context.Context, req *gateway.CreateCardRequest) (*gateway.CreateCardResult, error) {
	if err := g.begin(OpCreateCard); err != nil {
		return nil, err
	}
	return &gateway.CreateCardResult{
		CardID:   g.nextID("gw-card"),
		Last4:    "1111",
		Brand:    "VISA",
		ExpMonth: 12,
		ExpYear:  2030,
	}, nil
}

func (g *MockGateway) CreateOrder(ctx context.Context, req *gateway.CreateOrderRequest) (*gateway.CreateOrderResult, error) {
	if err := g.begin(OpCreateOrder); err != nil {
		return nil, err
	}
	return &gateway.CreateOrderResult{OrderID: g.nextID("gw-order")}, nil
}

func (g *MockGateway) CreateSubscription(ctx context.Context, req *gateway.CreateSubscriptionRequest) (*gateway.SubscriptionResult, error) {
	if err := g.begin(OpCreateSub); err != nil {
		return nil, err
	}
	return &gateway.SubscriptionResult{
		SubscriptionID: g.nextID("gw-sub"),
		Status:         "ACTIVE",
	}, nil
}

func (g *MockGateway) SwapSubscriptionPlan(ctx context.Context, req *gateway.SwapPlanRequest) (*gateway.SubscriptionResult, error) {
	g.mu.Lock()
	g.SwapRequests = append(g.SwapRequests, req)
	g.mu.Unlock()

	if err := g.begin(OpSwapPlan); err != nil {
		return nil, err
	}
	return &gateway.SubscriptionResult{
		SubscriptionID: req.SubscriptionID,
		Status:         "ACTIVE",
	}, nil
}

func (g *MockGateway) PauseSubscription(ctx context.Context, subscriptionID string) (*gateway.SubscriptionResult, error) {
	if err := g.begin(OpPauseSub); err != nil {
		return nil, err
	}
	return &gateway.SubscriptionResult{
		SubscriptionID: subscriptionID,
		Status:         "PAUSED",
	}, nil
}

func (g *MockGateway) ResumeSubscription(ctx context.Context, subscriptionID string) (*gateway.SubscriptionResult, error) {
	if err := g.begin(OpResumeSub); err != nil {
		return nil, err
	}
	return &gateway.SubscriptionResult{
		SubscriptionID: subscriptionID,
		Status:         "ACTIVE",
	}, nil
}

func (g *MockGateway) CancelSubscription(ctx context.Context, subscriptionID string) (*gateway.SubscriptionResult, error) {
	if err := g.begin(OpCancelSub); err != nil {
		return nil, err
	}
	return &gateway.SubscriptionResult{
		SubscriptionID: subscriptionID,
		Status:         "CANCELED",
	}, nil
}

func (g *MockGateway) Charge(ctx context.Context, req *gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	g.mu.Lock()
	g.ChargeRequests = append(g.ChargeRequests, req)
	g.mu.Unlock()

	if err := g.begin(OpCharge); err != nil {
		return nil, err
	}
	return &gateway.ChargeResult{
		PaymentID: g.nextID("gw-pay"),
		Status:    "COMPLETED",
	}, nil
}

func (g *MockGateway) GetCatalogPrices(ctx context.Context, variationIDs []string) (map[string]int64, error) {
	if err := g.begin(OpCatalogPrices); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	prices := make(map[string]int64)
	for _, id := range variationIDs {
		if price, ok := g.CatalogPrices[id]; ok {
			prices[id] = price
		}
	}
	return prices, nil
}

func (g *MockGateway) ListInvoices(ctx context.Context, gatewayCustomerID string) ([]*gateway.InvoiceResult, error) {
	if err := g.begin(OpListInvoices); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Invoices[gatewayCustomerID], nil
}
