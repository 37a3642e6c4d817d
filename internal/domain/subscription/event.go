package subscription

import (
	"time"

	"github.com/skeeterman/lawnbill/internal/types"
)

// Event is one row of the append-only subscription audit log. Every lifecycle
// transition writes exactly one event; rows are immutable once written.
type Event struct {
	// ID is the unique identifier for the event
	ID string `db:"id" json:"id"`

	// CustomerID references the customer the transition applied to
	CustomerID string `db:"customer_id" json:"customer_id"`

	// GatewaySubscriptionID is the remote subscription the action applied to
	GatewaySubscriptionID string `db:"gateway_subscription_id" json:"gateway_subscription_id"`

	// Action is the transition that was recorded
	Action types.SubscriptionAction `db:"action" json:"action"`

	// EffectiveDate is the date the transition took effect
	EffectiveDate time.Time `db:"effective_date" json:"effective_date"`

	// Details is optional free-form reason text, e.g. for suspensions
	Details string `db:"details" json:"details"`

	types.BaseModel
}
