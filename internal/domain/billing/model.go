package billing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/skeeterman/lawnbill/internal/types"
)

// LineItem is a single order line sent to the gateway and recorded on the
// billing attempt. Ad-hoc lines (the synthetic processing fee) carry an
// explicit amount instead of a catalog object id.
type LineItem struct {
	// Name is set for ad-hoc lines without a catalog object
	Name string `json:"name,omitempty"`

	// CatalogObjectID is the gateway variation id for catalog-backed lines
	CatalogObjectID string `json:"catalog_object_id,omitempty"`

	// Quantity of the line, always 1 for plans and add-ons
	Quantity int `json:"quantity"`

	// AmountCents is the explicit line price in cents for ad-hoc lines;
	// zero means the gateway prices the line from its catalog
	AmountCents int64 `json:"amount_cents,omitempty"`
}

// LineItems is a JSONB-persisted list of order lines
type LineItems []LineItem

// Scan implements the sql.Scanner interface for LineItems
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to unmarshal JSONB value: %v", value)
	}
	return json.Unmarshal(bytes, l)
}

// Value implements the driver.Valuer interface for LineItems
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal(LineItems{})
	}
	return json.Marshal(l)
}

// Attempt records one billing action: a one-time charge or the creation of a
// recurring order template. Created once per action; never mutated except a
// status refresh from a later gateway sync.
type Attempt struct {
	// ID is the unique identifier for the billing attempt
	ID string `db:"id" json:"id"`

	// Number is a short human-readable reference, e.g. BA-XY12A8Q
	Number string `db:"number" json:"number"`

	// CustomerID references the customer billed
	CustomerID string `db:"customer_id" json:"customer_id"`

	// Items are the order lines the attempt covered
	Items LineItems `db:"items" json:"items"`

	// Subtotal is the sum of item prices before the processing fee
	Subtotal decimal.Decimal `db:"subtotal" json:"subtotal"`

	// Fee is the processing fee surcharge applied to the subtotal
	Fee decimal.Decimal `db:"fee" json:"fee"`

	// Total is subtotal plus fee
	Total decimal.Decimal `db:"total" json:"total"`

	// GatewayPaymentID is the remote payment id for immediate charges
	GatewayPaymentID string `db:"gateway_payment_id" json:"gateway_payment_id"`

	// GatewayOrderID is the remote order template id for recurring orders
	GatewayOrderID string `db:"gateway_order_id" json:"gateway_order_id"`

	// IdempotencyKey is the key the gateway call was made with
	IdempotencyKey string `db:"idempotency_key" json:"idempotency_key"`

	// AttemptStatus is the billing outcome
	AttemptStatus types.BillingAttemptStatus `db:"attempt_status" json:"attempt_status"`

	types.BaseModel
}

// PaymentMethod is a card saved on file at the gateway
type PaymentMethod struct {
	// ID is the unique identifier for the payment method
	ID string `db:"id" json:"id"`

	// CustomerID references the owning customer
	CustomerID string `db:"customer_id" json:"customer_id"`

	// GatewayCardID is the card id at the gateway
	GatewayCardID string `db:"gateway_card_id" json:"gateway_card_id"`

	// Last4 is the last four digits of the card number
	Last4 string `db:"last4" json:"last4"`

	// Brand is the card brand
	Brand string `db:"brand" json:"brand"`

	// ExpMonth is the card expiry month
	ExpMonth int `db:"exp_month" json:"exp_month"`

	// ExpYear is the card expiry year
	ExpYear int `db:"exp_year" json:"exp_year"`

	// IsDefault marks the card used for subscription and one-time charges
	IsDefault bool `db:"is_default" json:"is_default"`

	types.BaseModel
}

// Payment is a local record of money taken, written alongside the gateway's
// own records so billing history survives gateway outages.
type Payment struct {
	// ID is the unique identifier for the payment
	ID string `db:"id" json:"id"`

	// CustomerID references the customer charged
	CustomerID string `db:"customer_id" json:"customer_id"`

	// Amount is the amount charged
	Amount decimal.Decimal `db:"amount" json:"amount"`

	// PaymentStatus is PAID, FAILED or PENDING
	PaymentStatus types.BillingAttemptStatus `db:"payment_status" json:"payment_status"`

	// GatewayTransactionID is the remote payment or subscription reference
	GatewayTransactionID string `db:"gateway_transaction_id" json:"gateway_transaction_id"`

	types.BaseModel
}
