package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/skeeterman/lawnbill/internal/api/dto"
	"github.com/skeeterman/lawnbill/internal/cache"
	"github.com/skeeterman/lawnbill/internal/domain/billing"
	"github.com/skeeterman/lawnbill/internal/domain/catalog"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
)

// PricingService assembles order line items and pricing from the catalog
type PricingService interface {
	// AssembleOrder builds the full order for a plan plus add-ons: one line
	// per plan and add-on, a synthetic processing fee line, and the computed
	// subtotal, fee and total. Fails fast when the plan or any add-on cannot
	// be resolved; no partial order is ever returned.
	AssembleOrder(ctx context.Context, planVariationID string, addonVariationIDs []string) (*dto.PricingPreview, error)

	// AssembleAddons builds an order of add-ons only, used for the upfront
	// one-time charge
	AssembleAddons(ctx context.Context, addonVariationIDs []string) (*dto.PricingPreview, error)

	// PartitionAddons splits add-on variation ids into recurring and
	// one-time by catalog billing cadence
	PartitionAddons(ctx context.Context, addonVariationIDs []string) (recurring []*catalog.Item, oneTime []*catalog.Item, err error)

	// ComputeFee returns the processing fee surcharge for a subtotal. Same
	// input always yields the same fee to the cent.
	ComputeFee(subtotal decimal.Decimal) decimal.Decimal
}

var decimalHundred = decimal.NewFromInt(100)

type pricingService struct {
	ServiceParams
}

func NewPricingService(params ServiceParams) PricingService {
	return &pricingService{ServiceParams: params}
}

func (s *pricingService) AssembleOrder(ctx context.Context, planVariationID string, addonVariationIDs []string) (*dto.PricingPreview, error) {
	plan, err := s.CatalogRepo.GetByVariationID(ctx, planVariationID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("plan not found").
				WithHintf("No plan in the catalog for variation %s", planVariationID).
				WithReportableDetails(map[string]any{
					"plan_variation_id": planVariationID,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}

	items := []*catalog.Item{plan}
	addons, err := s.resolveAddons(ctx, addonVariationIDs)
	if err != nil {
		return nil, err
	}
	items = append(items, addons...)

	return s.buildPreview(ctx, items)
}

func (s *pricingService) AssembleAddons(ctx context.Context, addonVariationIDs []string) (*dto.PricingPreview, error) {
	addons, err := s.resolveAddons(ctx, addonVariationIDs)
	if err != nil {
		return nil, err
	}
	return s.buildPreview(ctx, addons)
}

func (s *pricingService) PartitionAddons(ctx context.Context, addonVariationIDs []string) ([]*catalog.Item, []*catalog.Item, error) {
	addons, err := s.resolveAddons(ctx, addonVariationIDs)
	if err != nil {
		return nil, nil, err
	}

	recurring, oneTime := lo.FilterReject(addons, func(item *catalog.Item, _ int) bool {
		return !item.IsOneTime()
	})
	return recurring, oneTime, nil
}

func (s *pricingService) ComputeFee(subtotal decimal.Decimal) decimal.Decimal {
	rate := decimal.NewFromFloat(s.Config.Billing.FeeRate)
	fixed := decimal.NewFromInt(s.Config.Billing.FeeFixedCents).Div(decimalHundred)
	return subtotal.Mul(rate).Add(fixed).Round(2)
}

// resolveAddons resolves every requested add-on or fails the whole call
func (s *pricingService) resolveAddons(ctx context.Context, addonVariationIDs []string) ([]*catalog.Item, error) {
	items := make([]*catalog.Item, 0, len(addonVariationIDs))
	for _, id := range addonVariationIDs {
		item, err := s.CatalogRepo.GetByVariationID(ctx, id)
		if err != nil {
			if ierr.IsNotFound(err) {
				return nil, ierr.NewError("catalog item missing").
					WithHintf("Add-on %s does not exist in the catalog", id).
					WithReportableDetails(map[string]any{
						"addon_variation_id": id,
					}).
					Mark(ierr.ErrNotFound)
			}
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *pricingService) buildPreview(ctx context.Context, items []*catalog.Item) (*dto.PricingPreview, error) {
	lineItems := make(billing.LineItems, 0, len(items)+1)
	subtotal := decimal.Zero

	for _, item := range items {
		price, err := s.resolvePrice(ctx, item)
		if err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(price)
		lineItems = append(lineItems, billing.LineItem{
			CatalogObjectID: item.VariationID,
			Quantity:        1,
		})
	}

	fee := s.ComputeFee(subtotal)
	lineItems = append(lineItems, s.feeLine(ctx, fee))

	return &dto.PricingPreview{
		LineItems: lineItems,
		Subtotal:  subtotal,
		Fee:       fee,
		Total:     subtotal.Add(fee),
	}, nil
}

// feeLine builds the processing fee line item. A configured FEE catalog item
// supplies the gateway catalog reference so the fee shows up under the
// business's own item name; without one the line is ad-hoc.
func (s *pricingService) feeLine(ctx context.Context, fee decimal.Decimal) billing.LineItem {
	line := billing.LineItem{
		Name:        "Processing Fee",
		Quantity:    1,
		AmountCents: fee.Mul(decimalHundred).IntPart(),
	}

	if feeItem, err := s.CatalogRepo.GetFeeItem(ctx); err == nil {
		line.Name = feeItem.Name
		line.CatalogObjectID = feeItem.VariationID
	} else if !ierr.IsNotFound(err) {
		s.Logger.Warnw("failed to load fee catalog item", "error", err)
	}

	return line
}

// resolvePrice returns the item's price, defending against a stale local
// catalog row: a zero price falls back to the cached live price, then to the
// gateway itself.
func (s *pricingService) resolvePrice(ctx context.Context, item *catalog.Item) (decimal.Decimal, error) {
	if !item.Price.IsZero() {
		return item.Price, nil
	}

	key := cache.GenerateKey(cache.PrefixCatalogPrice, item.VariationID)
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if price, ok := cached.(decimal.Decimal); ok {
			return price, nil
		}
	}

	prices, err := s.Gateway.GetCatalogPrices(ctx, []string{item.VariationID})
	if err != nil {
		return decimal.Zero, err
	}

	cents, ok := prices[item.VariationID]
	if !ok {
		return decimal.Zero, ierr.NewError("catalog item missing").
			WithHintf("The gateway has no price for variation %s", item.VariationID).
			WithReportableDetails(map[string]any{
				"variation_id": item.VariationID,
			}).
			Mark(ierr.ErrNotFound)
	}

	price := decimal.NewFromInt(cents).Div(decimalHundred)
	s.Cache.Set(ctx, key, price, 0)

	s.Logger.Warnw("catalog price was stale, used live gateway price",
		"variation_id", item.VariationID,
		"price", price,
	)

	return price, nil
}
