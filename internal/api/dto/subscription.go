package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/skeeterman/lawnbill/internal/domain/subscription"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/types"
)

// ChangeSubscriptionRequest activates a subscription or changes its plan and
// add-on selection. AddonVariationIDs may mix recurring and one-time add-ons;
// the orchestrator partitions them by catalog billing cadence.
type ChangeSubscriptionRequest struct {
	PlanVariationID   string   `json:"plan_variation_id" validate:"required"`
	AddonVariationIDs []string `json:"addon_variation_ids"`
}

func (r *ChangeSubscriptionRequest) Validate() error {
	if r.PlanVariationID == "" {
		return ierr.NewError("plan_variation_id is required").
			WithHint("A plan variation is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ChangeSubscriptionResponse reports the outcome of a subscription change
type ChangeSubscriptionResponse struct {
	CustomerID            string                   `json:"customer_id"`
	GatewaySubscriptionID string                   `json:"gateway_subscription_id"`
	SubscriptionStatus    types.SubscriptionStatus `json:"subscription_status"`

	// StartDate is set when the plan is out of season and the subscription
	// begins at the next active month
	StartDate *time.Time `json:"start_date,omitempty"`

	// OneTimeCharge is set when one-time add-ons were charged upfront
	OneTimeCharge *BillingAttemptResponse `json:"one_time_charge,omitempty"`

	// RecurringTotal is the per-cycle total of the recurring order
	RecurringTotal decimal.Decimal `json:"recurring_total"`
}

// SubscriptionEventResponse is one audit log entry
type SubscriptionEventResponse struct {
	*subscription.Event
}

// ListSubscriptionEventsResponse is the audit history of one customer
type ListSubscriptionEventsResponse struct {
	Items []*SubscriptionEventResponse `json:"items"`
	Total int                          `json:"total"`
}
