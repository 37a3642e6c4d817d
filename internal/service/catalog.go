package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/skeeterman/lawnbill/internal/api/dto"
	"github.com/skeeterman/lawnbill/internal/domain/catalog"
	"github.com/skeeterman/lawnbill/internal/types"
)

// CatalogService manages the locally mirrored product catalog
type CatalogService interface {
	CreateItem(ctx context.Context, item *catalog.Item) (*dto.CatalogItemResponse, error)
	DeleteItem(ctx context.Context, id string) error
	ListPlans(ctx context.Context) (*dto.ListCatalogItemsResponse, error)
	ListAddons(ctx context.Context) (*dto.ListCatalogItemsResponse, error)

	// SyncPrices refreshes every local item's price from the gateway's
	// live catalog
	SyncPrices(ctx context.Context) (int, error)
}

type catalogService struct {
	ServiceParams
}

func NewCatalogService(params ServiceParams) CatalogService {
	return &catalogService{ServiceParams: params}
}

func (s *catalogService) CreateItem(ctx context.Context, item *catalog.Item) (*dto.CatalogItemResponse, error) {
	if item.ID == "" {
		item.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CATALOG_ITEM)
	}
	if item.Status == "" {
		item.BaseModel = types.GetDefaultBaseModel(ctx)
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.CatalogRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return &dto.CatalogItemResponse{Item: item}, nil
}

func (s *catalogService) DeleteItem(ctx context.Context, id string) error {
	item, err := s.CatalogRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.CatalogRepo.Delete(ctx, item.ID); err != nil {
		return err
	}

	s.Logger.Infow("deleted catalog item",
		"item_id", item.ID,
		"variation_id", item.VariationID,
	)
	return nil
}

func (s *catalogService) ListPlans(ctx context.Context) (*dto.ListCatalogItemsResponse, error) {
	return s.listByType(ctx, types.CatalogItemTypePlan)
}

func (s *catalogService) ListAddons(ctx context.Context) (*dto.ListCatalogItemsResponse, error) {
	return s.listByType(ctx, types.CatalogItemTypeAddon)
}

func (s *catalogService) listByType(ctx context.Context, itemType types.CatalogItemType) (*dto.ListCatalogItemsResponse, error) {
	items, err := s.CatalogRepo.ListByType(ctx, itemType)
	if err != nil {
		return nil, err
	}

	return &dto.ListCatalogItemsResponse{
		Items: lo.Map(items, func(i *catalog.Item, _ int) *dto.CatalogItemResponse {
			return &dto.CatalogItemResponse{Item: i}
		}),
		Total: len(items),
	}, nil
}

func (s *catalogService) SyncPrices(ctx context.Context) (int, error) {
	plans, err := s.CatalogRepo.ListByType(ctx, types.CatalogItemTypePlan)
	if err != nil {
		return 0, err
	}
	addons, err := s.CatalogRepo.ListByType(ctx, types.CatalogItemTypeAddon)
	if err != nil {
		return 0, err
	}
	items := append(plans, addons...)
	if len(items) == 0 {
		return 0, nil
	}

	variationIDs := lo.Map(items, func(i *catalog.Item, _ int) string {
		return i.VariationID
	})
	prices, err := s.Gateway.GetCatalogPrices(ctx, variationIDs)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, item := range items {
		cents, ok := prices[item.VariationID]
		if !ok {
			continue
		}
		price := decimal.NewFromInt(cents).Div(decimalHundred)
		if item.Price.Equal(price) {
			continue
		}
		item.Price = price
		if err := s.CatalogRepo.Update(ctx, item); err != nil {
			return updated, err
		}
		updated++
	}

	s.Logger.Infow("synced catalog prices from gateway",
		"items", len(items),
		"updated", updated,
	)

	return updated, nil
}
