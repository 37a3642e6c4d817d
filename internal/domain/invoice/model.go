package invoice

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/skeeterman/lawnbill/internal/types"
)

// Invoice is a local mirror of a gateway-hosted invoice, kept in sync by the
// invoice sync job so billing history is queryable without a gateway call.
type Invoice struct {
	// ID is the unique identifier for the invoice
	ID string `db:"id" json:"id"`

	// GatewayInvoiceID is the invoice id at the gateway
	GatewayInvoiceID string `db:"gateway_invoice_id" json:"gateway_invoice_id"`

	// CustomerID references the billed customer
	CustomerID string `db:"customer_id" json:"customer_id"`

	// GatewaySubscriptionID is the remote subscription the invoice belongs to
	GatewaySubscriptionID string `db:"gateway_subscription_id" json:"gateway_subscription_id"`

	// Amount is the invoice amount
	Amount decimal.Decimal `db:"amount" json:"amount"`

	// InvoiceStatus is the gateway-reported status (PAID, UNPAID, ...)
	InvoiceStatus string `db:"invoice_status" json:"invoice_status"`

	// DueDate is when payment is due
	DueDate *time.Time `db:"due_date" json:"due_date,omitempty"`

	// PublicURL links to the gateway-hosted invoice page
	PublicURL string `db:"public_url" json:"public_url"`

	types.BaseModel
}
