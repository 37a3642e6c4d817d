package customer

import (
	"github.com/lib/pq"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/types"
)

// Customer represents a customer in the system
type Customer struct {
	// ID is the unique identifier for the customer
	ID string `db:"id" json:"id"`

	// FirstName is the customer's first name
	FirstName string `db:"first_name" json:"first_name"`

	// LastName is the customer's last name
	LastName string `db:"last_name" json:"last_name"`

	// Email is the email of the customer
	Email string `db:"email" json:"email"`

	// PhoneNumber is the customer's phone number
	PhoneNumber string `db:"phone_number" json:"phone_number"`

	// AddressLine1 is the first line of the customer's address
	AddressLine1 string `db:"address_line1" json:"address_line1"`

	// AddressCity is the city of the customer's address
	AddressCity string `db:"address_city" json:"address_city"`

	// AddressState is the state of the customer's address
	AddressState string `db:"address_state" json:"address_state"`

	// AddressPostalCode is the postal code of the customer's address
	AddressPostalCode string `db:"address_postal_code" json:"address_postal_code"`

	// GatewayCustomerID is the customer's id at the payment gateway
	GatewayCustomerID string `db:"gateway_customer_id" json:"gateway_customer_id"`

	// GatewaySubscriptionID is the remote subscription id, empty until activated
	GatewaySubscriptionID string `db:"gateway_subscription_id" json:"gateway_subscription_id"`

	// SubscriptionStatus is the single source of truth for the lifecycle
	// state. Whether the relationship is still live is derived from it via
	// IsEngaged, never tracked separately.
	SubscriptionStatus types.SubscriptionStatus `db:"subscription_status" json:"subscription_status"`

	// PlanVariationID is the gateway catalog variation of the current plan
	PlanVariationID string `db:"plan_variation_id" json:"plan_variation_id"`

	// SelectedAddons holds the recurring add-on variation ids billed with the
	// subscription. One-time add-ons are billing events, never stored here.
	SelectedAddons pq.StringArray `db:"selected_addons" json:"selected_addons"`

	// PausedBySchedule disambiguates an automatic seasonal pause from a
	// manual one, so the monthly job never auto-resumes a manual pause.
	PausedBySchedule bool `db:"paused_by_schedule" json:"paused_by_schedule"`

	// FailedPaymentAttempts counts consecutive failed invoice payments and
	// is reset on the first success.
	FailedPaymentAttempts int `db:"failed_payment_attempts" json:"failed_payment_attempts"`

	// Metadata
	Metadata types.Metadata `db:"metadata" json:"metadata"`

	types.BaseModel
}

// HasSubscription reports whether the customer has a remote subscription id
func (c *Customer) HasSubscription() bool {
	return c.GatewaySubscriptionID != ""
}

func (c *Customer) Validate() error {
	if c.Email == "" {
		return ierr.NewError("email is required").
			WithHint("Email is required").
			Mark(ierr.ErrValidation)
	}
	if c.SubscriptionStatus != "" {
		if err := c.SubscriptionStatus.Validate(); err != nil {
			return err
		}
	}
	return nil
}
