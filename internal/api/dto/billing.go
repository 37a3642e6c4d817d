package dto

import (
	"github.com/shopspring/decimal"
	"github.com/skeeterman/lawnbill/internal/domain/billing"
)

// PricingPreview is an assembled order before any gateway call
type PricingPreview struct {
	LineItems billing.LineItems `json:"line_items"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
	Fee       decimal.Decimal   `json:"fee"`
	Total     decimal.Decimal   `json:"total"`
}

// BillingAttemptResponse is the API shape of a billing attempt
type BillingAttemptResponse struct {
	*billing.Attempt
}

// NewBillingAttemptResponse creates a new billing attempt response
func NewBillingAttemptResponse(a *billing.Attempt) *BillingAttemptResponse {
	return &BillingAttemptResponse{Attempt: a}
}

// PaymentResponse is the API shape of a payment record
type PaymentResponse struct {
	*billing.Payment
}

// BillingHistoryResponse is a customer's attempts and payments
type BillingHistoryResponse struct {
	Attempts []*BillingAttemptResponse `json:"attempts"`
	Payments []*PaymentResponse        `json:"payments"`
}
