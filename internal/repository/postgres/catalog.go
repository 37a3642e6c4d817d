package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/skeeterman/lawnbill/internal/domain/catalog"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/logger"
	"github.com/skeeterman/lawnbill/internal/postgres"
	"github.com/skeeterman/lawnbill/internal/types"
)

type catalogRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewCatalogRepository(db postgres.IClient, logger *logger.Logger) catalog.Repository {
	return &catalogRepository{db: db, logger: logger}
}

const catalogColumns = `
	id, item_type, name, variation_id, price, billing_cadence, description,
	status, created_at, updated_at, created_by, updated_by`

func (r *catalogRepository) Create(ctx context.Context, item *catalog.Item) error {
	query := `
		INSERT INTO catalog_items (
			id, item_type, name, variation_id, price, billing_cadence, description,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :item_type, :name, :variation_id, :price, :billing_cadence, :description,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating catalog item",
		"item_id", item.ID,
		"item_type", item.ItemType,
		"name", item.Name,
	)

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, item)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create catalog item").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *catalogRepository) Get(ctx context.Context, id string) (*catalog.Item, error) {
	var item catalog.Item
	query := `SELECT ` + catalogColumns + ` FROM catalog_items WHERE id = $1 AND status != $2`
	err := r.db.Querier(ctx).GetContext(ctx, &item, query, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("catalog item not found").
				WithHintf("Catalog item %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get catalog item").
			Mark(ierr.ErrDatabase)
	}
	return &item, nil
}

func (r *catalogRepository) GetByVariationID(ctx context.Context, variationID string) (*catalog.Item, error) {
	var item catalog.Item
	query := `SELECT ` + catalogColumns + ` FROM catalog_items WHERE variation_id = $1 AND status != $2`
	err := r.db.Querier(ctx).GetContext(ctx, &item, query, variationID, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("catalog item not found").
				WithHintf("No catalog item for variation %s", variationID).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get catalog item by variation").
			Mark(ierr.ErrDatabase)
	}
	return &item, nil
}

func (r *catalogRepository) GetPlanByName(ctx context.Context, name string) (*catalog.Item, error) {
	var item catalog.Item
	query := `SELECT ` + catalogColumns + `
		FROM catalog_items
		WHERE item_type = $1 AND name ILIKE '%' || $2 || '%' AND status != $3
		LIMIT 1`
	err := r.db.Querier(ctx).GetContext(ctx, &item, query, types.CatalogItemTypePlan, name, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("plan not found").
				WithHintf("No plan named %s", name).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get plan by name").
			Mark(ierr.ErrDatabase)
	}
	return &item, nil
}

func (r *catalogRepository) GetFeeItem(ctx context.Context) (*catalog.Item, error) {
	var item catalog.Item
	query := `SELECT ` + catalogColumns + ` FROM catalog_items WHERE item_type = $1 AND status != $2 LIMIT 1`
	err := r.db.Querier(ctx).GetContext(ctx, &item, query, types.CatalogItemTypeFee, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("fee item not found").
				WithHint("No fee item is configured in the catalog").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get fee item").
			Mark(ierr.ErrDatabase)
	}
	return &item, nil
}

func (r *catalogRepository) ListByType(ctx context.Context, itemType types.CatalogItemType) ([]*catalog.Item, error) {
	var items []*catalog.Item
	query := `SELECT ` + catalogColumns + ` FROM catalog_items WHERE item_type = $1 AND status != $2 ORDER BY name`
	err := r.db.Querier(ctx).SelectContext(ctx, &items, query, itemType, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list catalog items").
			Mark(ierr.ErrDatabase)
	}
	return items, nil
}

func (r *catalogRepository) ListByVariationIDs(ctx context.Context, variationIDs []string) ([]*catalog.Item, error) {
	if len(variationIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		`SELECT `+catalogColumns+` FROM catalog_items WHERE variation_id IN (?) AND status != ?`,
		variationIDs, types.StatusDeleted,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to build variation lookup query").
			Mark(ierr.ErrDatabase)
	}

	q := r.db.Querier(ctx)
	var items []*catalog.Item
	err = q.SelectContext(ctx, &items, q.Rebind(query), args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list catalog items by variation").
			Mark(ierr.ErrDatabase)
	}
	return items, nil
}

func (r *catalogRepository) Update(ctx context.Context, item *catalog.Item) error {
	item.UpdatedAt = time.Now().UTC()
	item.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE catalog_items SET
			item_type = :item_type,
			name = :name,
			variation_id = :variation_id,
			price = :price,
			billing_cadence = :billing_cadence,
			description = :description,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, item)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update catalog item").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *catalogRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE catalog_items SET
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, map[string]interface{}{
		"id":         id,
		"status":     types.StatusDeleted,
		"updated_by": types.GetUserID(ctx),
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete catalog item").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
