package catalog

import (
	"context"

	"github.com/skeeterman/lawnbill/internal/types"
)

// Repository defines the interface for catalog item data access
type Repository interface {
	Create(ctx context.Context, item *Item) error
	Get(ctx context.Context, id string) (*Item, error)
	GetByVariationID(ctx context.Context, variationID string) (*Item, error)

	// GetPlanByName resolves the PLAN item whose name matches the given plan
	// name (case-insensitive substring). Same simplification caveat as the
	// schedule lookup.
	GetPlanByName(ctx context.Context, name string) (*Item, error)

	// GetFeeItem returns the FEE placeholder item, if one is configured
	GetFeeItem(ctx context.Context) (*Item, error)

	ListByType(ctx context.Context, itemType types.CatalogItemType) ([]*Item, error)
	ListByVariationIDs(ctx context.Context, variationIDs []string) ([]*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id string) error
}
