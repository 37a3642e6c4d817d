package catalog

import (
	"github.com/shopspring/decimal"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/types"
)

// Item mirrors one entry of the externally hosted product catalog locally for
// fast pricing lookups. Every plan or add-on referenced by a customer must
// resolve to exactly one Item or the operation fails.
type Item struct {
	// ID is the unique identifier for the catalog item
	ID string `db:"id" json:"id"`

	// ItemType classifies the entry as PLAN, ADDON or FEE
	ItemType types.CatalogItemType `db:"item_type" json:"item_type"`

	// Name is the display name of the item
	Name string `db:"name" json:"name"`

	// VariationID is the gateway catalog object id used on order lines
	VariationID string `db:"variation_id" json:"variation_id"`

	// Price is the item price; for FEE items the price is computed per order
	Price decimal.Decimal `db:"price" json:"price"`

	// BillingCadence is RECURRING or ONE_TIME
	BillingCadence types.BillingCadence `db:"billing_cadence" json:"billing_cadence"`

	// Description is optional marketing copy
	Description string `db:"description" json:"description"`

	types.BaseModel
}

// IsOneTime reports whether the item is billed once rather than every cycle
func (i *Item) IsOneTime() bool {
	return i.BillingCadence == types.BillingCadenceOneTime
}

func (i *Item) Validate() error {
	if i.Name == "" {
		return ierr.NewError("catalog item name is required").
			WithHint("Item name is required").
			Mark(ierr.ErrValidation)
	}
	if err := i.ItemType.Validate(); err != nil {
		return err
	}
	if i.BillingCadence != "" {
		if err := i.BillingCadence.Validate(); err != nil {
			return err
		}
	}
	if i.Price.IsNegative() {
		return ierr.NewError("catalog item price cannot be negative").
			WithHint("Price must be zero or positive").
			WithReportableDetails(map[string]any{
				"price": i.Price.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
