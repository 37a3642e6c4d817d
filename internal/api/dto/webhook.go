package dto

// Webhook event types the handler acts on
const (
	WebhookInvoicePaymentFailed    = "invoice.payment_failed"
	WebhookInvoicePaymentSucceeded = "invoice.payment_succeeded"
)

// WebhookEvent is the inbound gateway notification envelope. Only the fields
// the lifecycle engine needs are decoded; everything else is ignored.
type WebhookEvent struct {
	Type string           `json:"type"`
	Data WebhookEventData `json:"data"`
}

// WebhookEventData is the data wrapper of a webhook event
type WebhookEventData struct {
	Object WebhookEventObject `json:"object"`
}

// WebhookEventObject holds the invoice of a payment notification
type WebhookEventObject struct {
	Invoice WebhookInvoice `json:"invoice"`
}

// WebhookInvoice identifies the gateway customer a payment event applies to
type WebhookInvoice struct {
	ID             string `json:"id"`
	CustomerID     string `json:"customer_id"`
	SubscriptionID string `json:"subscription_id"`
}

// WebhookResult reports how an event was handled
type WebhookResult struct {
	EventType  string `json:"event_type"`
	CustomerID string `json:"customer_id,omitempty"`
	Handled    bool   `json:"handled"`
}
