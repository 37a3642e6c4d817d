package types

import (
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/samber/lo"
)

// CatalogItemType classifies entries in the locally mirrored product catalog.
type CatalogItemType string

const (
	CatalogItemTypePlan  CatalogItemType = "PLAN"
	CatalogItemTypeAddon CatalogItemType = "ADDON"
	CatalogItemTypeFee   CatalogItemType = "FEE"
)

func (t CatalogItemType) String() string {
	return string(t)
}

func (t CatalogItemType) Validate() error {
	allowed := []CatalogItemType{
		CatalogItemTypePlan,
		CatalogItemTypeAddon,
		CatalogItemTypeFee,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid catalog item type").
			WithHint("Catalog item type must be PLAN, ADDON or FEE").
			WithReportableDetails(map[string]any{
				"item_type":      t,
				"allowed_values": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BillingCadence distinguishes add-ons billed with every cycle from add-ons
// billed once at purchase time.
type BillingCadence string

const (
	BillingCadenceRecurring BillingCadence = "RECURRING"
	BillingCadenceOneTime   BillingCadence = "ONE_TIME"
)

func (c BillingCadence) String() string {
	return string(c)
}

func (c BillingCadence) Validate() error {
	allowed := []BillingCadence{
		BillingCadenceRecurring,
		BillingCadenceOneTime,
	}
	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid billing cadence").
			WithHint("Billing cadence must be RECURRING or ONE_TIME").
			WithReportableDetails(map[string]any{
				"billing_cadence": c,
				"allowed_values":  allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BillingAttemptStatus is the status of a one-time charge or recurring order
// record. Rows are only mutated by a later sync against the gateway.
type BillingAttemptStatus string

const (
	BillingAttemptStatusPending   BillingAttemptStatus = "PENDING"
	BillingAttemptStatusPaid      BillingAttemptStatus = "PAID"
	BillingAttemptStatusFailed    BillingAttemptStatus = "FAILED"
	BillingAttemptStatusCancelled BillingAttemptStatus = "CANCELLED"
)

func (s BillingAttemptStatus) String() string {
	return string(s)
}
