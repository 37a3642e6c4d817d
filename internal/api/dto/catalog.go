package dto

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/skeeterman/lawnbill/internal/domain/catalog"
	"github.com/skeeterman/lawnbill/internal/domain/invoice"
	"github.com/skeeterman/lawnbill/internal/domain/schedule"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/types"
	"github.com/skeeterman/lawnbill/internal/validator"
)

// CreateCatalogItemRequest registers a plan or add-on in the local catalog
// mirror
type CreateCatalogItemRequest struct {
	ItemType       types.CatalogItemType `json:"item_type" validate:"required"`
	Name           string                `json:"name" validate:"required"`
	VariationID    string                `json:"variation_id" validate:"required"`
	Price          decimal.Decimal       `json:"price"`
	BillingCadence types.BillingCadence  `json:"billing_cadence" validate:"required"`
	Description    string                `json:"description"`
}

func (r *CreateCatalogItemRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.ItemType.Validate(); err != nil {
		return err
	}
	return r.BillingCadence.Validate()
}

// ToItem converts the request into a catalog item
func (r *CreateCatalogItemRequest) ToItem(ctx context.Context) *catalog.Item {
	return &catalog.Item{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CATALOG_ITEM),
		ItemType:       r.ItemType,
		Name:           r.Name,
		VariationID:    r.VariationID,
		Price:          r.Price,
		BillingCadence: r.BillingCadence,
		Description:    r.Description,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

// CatalogItemResponse is the API shape of a catalog item
type CatalogItemResponse struct {
	*catalog.Item
}

// ListCatalogItemsResponse is a list of catalog items
type ListCatalogItemsResponse struct {
	Items []*CatalogItemResponse `json:"items"`
	Total int                    `json:"total"`
}

// CreatePlanScheduleRequest configures the active month window for a plan
type CreatePlanScheduleRequest struct {
	PlanName   string `json:"plan_name" validate:"required"`
	StartMonth int    `json:"start_month" validate:"required,min=1,max=12"`
	EndMonth   int    `json:"end_month" validate:"required,min=1,max=12"`
}

func (r *CreatePlanScheduleRequest) Validate() error {
	if r.PlanName == "" {
		return ierr.NewError("plan_name is required").
			WithHint("Plan name is required").
			Mark(ierr.ErrValidation)
	}
	if r.StartMonth < 1 || r.StartMonth > 12 || r.EndMonth < 1 || r.EndMonth > 12 {
		return ierr.NewError("months out of range").
			WithHint("Start and end month must be between 1 and 12").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// UpdatePlanScheduleRequest replaces a schedule's active month window
type UpdatePlanScheduleRequest struct {
	StartMonth int `json:"start_month" validate:"required,min=1,max=12"`
	EndMonth   int `json:"end_month" validate:"required,min=1,max=12"`
}

func (r *UpdatePlanScheduleRequest) Validate() error {
	if r.StartMonth < 1 || r.StartMonth > 12 || r.EndMonth < 1 || r.EndMonth > 12 {
		return ierr.NewError("months out of range").
			WithHint("Start and end month must be between 1 and 12").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PlanScheduleResponse is the API shape of a plan schedule
type PlanScheduleResponse struct {
	*schedule.PlanSchedule
}

// ListPlanSchedulesResponse is a list of plan schedules
type ListPlanSchedulesResponse struct {
	Items []*PlanScheduleResponse `json:"items"`
	Total int                     `json:"total"`
}

// InvoiceResponse is the API shape of a locally mirrored invoice
type InvoiceResponse struct {
	*invoice.Invoice
}

// ListInvoicesResponse is a list of invoices
type ListInvoicesResponse struct {
	Items []*InvoiceResponse `json:"items"`
	Total int                `json:"total"`
}
