package gateway

import (
	"time"

	"github.com/skeeterman/lawnbill/internal/domain/billing"
)

// CreateCustomerRequest registers a customer at the gateway
type CreateCustomerRequest struct {
	GivenName   string
	FamilyName  string
	Email       string
	PhoneNumber string
}

// CreateCustomerResult is the decoded outcome of CreateCustomer
type CreateCustomerResult struct {
	CustomerID string
}

// CreateCardRequest saves a tokenized card against a gateway customer
type CreateCardRequest struct {
	SourceID          string
	GatewayCustomerID string
	IdempotencyKey    string
}

// CreateCardResult is the decoded outcome of CreateCardOnFile
type CreateCardResult struct {
	CardID   string
	Last4    string
	Brand    string
	ExpMonth int
	ExpYear  int
}

// CreateOrderRequest creates an order or order template from line items
type CreateOrderRequest struct {
	LineItems      billing.LineItems
	IdempotencyKey string
}

// CreateOrderResult is the decoded outcome of CreateOrder
type CreateOrderResult struct {
	OrderID string
}

// CreateSubscriptionRequest starts a remote subscription
type CreateSubscriptionRequest struct {
	GatewayCustomerID string
	PlanVariationID   string
	CardID            string
	OrderTemplateID   string
	StartDate         *time.Time
	IdempotencyKey    string
}

// SwapPlanRequest changes the plan of an existing remote subscription
type SwapPlanRequest struct {
	SubscriptionID     string
	NewPlanVariationID string
	OrderTemplateID    string
}

// SubscriptionResult is the decoded outcome of any subscription operation
type SubscriptionResult struct {
	SubscriptionID string
	Status         string
}

// ChargeRequest takes an immediate payment from a saved source
type ChargeRequest struct {
	SourceID       string
	AmountCents    int64
	Currency       string
	IdempotencyKey string
}

// ChargeResult is the decoded outcome of Charge
type ChargeResult struct {
	PaymentID string
	Status    string
}

// InvoiceResult is one decoded gateway-hosted invoice
type InvoiceResult struct {
	InvoiceID      string
	SubscriptionID string
	AmountCents    int64
	Status         string
	DueDate        *time.Time
	PublicURL      string
}
