package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/skeeterman/lawnbill/internal/api/dto"
	"github.com/skeeterman/lawnbill/internal/cache"
	"github.com/skeeterman/lawnbill/internal/domain/invoice"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/types"
)

// statsCacheTTL bounds how stale the analytics summary may be
const statsCacheTTL = 5 * time.Minute

// InvoiceService mirrors gateway-hosted invoices locally and serves the
// admin analytics summary
type InvoiceService interface {
	// SyncInvoices pulls the customer's invoices from the gateway and
	// upserts the local mirror
	SyncInvoices(ctx context.Context, customerID string) (*dto.ListInvoicesResponse, error)

	// ListInvoices returns the local invoice mirror for a customer
	ListInvoices(ctx context.Context, customerID string) (*dto.ListInvoicesResponse, error)

	// GetBillingStats returns the analytics summary, served from a TTL
	// cache
	GetBillingStats(ctx context.Context) (*dto.BillingStatsResponse, error)
}

type invoiceService struct {
	ServiceParams
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{ServiceParams: params}
}

func (s *invoiceService) SyncInvoices(ctx context.Context, customerID string) (*dto.ListInvoicesResponse, error) {
	c, err := s.CustomerRepo.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	remote, err := s.Gateway.ListInvoices(ctx, c.GatewayCustomerID)
	if err != nil {
		return nil, err
	}

	for _, r := range remote {
		amount := decimal.NewFromInt(r.AmountCents).Div(decimalHundred)

		existing, err := s.InvoiceRepo.GetByGatewayInvoiceID(ctx, r.InvoiceID)
		if err != nil {
			if !ierr.IsNotFound(err) {
				return nil, err
			}
			inv := &invoice.Invoice{
				ID:                    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
				GatewayInvoiceID:      r.InvoiceID,
				CustomerID:            c.ID,
				GatewaySubscriptionID: r.SubscriptionID,
				Amount:                amount,
				InvoiceStatus:         r.Status,
				DueDate:               r.DueDate,
				PublicURL:             r.PublicURL,
				BaseModel:             types.GetDefaultBaseModel(ctx),
			}
			if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
				return nil, err
			}
			continue
		}

		existing.Amount = amount
		existing.InvoiceStatus = r.Status
		existing.DueDate = r.DueDate
		existing.PublicURL = r.PublicURL
		if err := s.InvoiceRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
	}

	s.Logger.Infow("synced invoices from gateway",
		"customer_id", c.ID,
		"count", len(remote),
	)

	return s.ListInvoices(ctx, customerID)
}

func (s *invoiceService) ListInvoices(ctx context.Context, customerID string) (*dto.ListInvoicesResponse, error) {
	invoices, err := s.InvoiceRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &dto.ListInvoicesResponse{
		Items: lo.Map(invoices, func(i *invoice.Invoice, _ int) *dto.InvoiceResponse {
			return &dto.InvoiceResponse{Invoice: i}
		}),
		Total: len(invoices),
	}, nil
}

func (s *invoiceService) GetBillingStats(ctx context.Context) (*dto.BillingStatsResponse, error) {
	key := cache.GenerateKey(cache.PrefixAnalytics, "billing_stats")
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if stats, ok := cached.(*dto.BillingStatsResponse); ok {
			return stats, nil
		}
	}

	total, err := s.CustomerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	customers, err := s.CustomerRepo.ListWithSubscription(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.BillingStatsResponse{
		TotalCustomers:   total,
		PlanDistribution: make(map[string]int),
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	mrr := decimal.Zero
	for _, c := range customers {
		switch c.SubscriptionStatus {
		case types.SubscriptionStatusActive:
			stats.ActiveSubscribers++
		case types.SubscriptionStatusPaused:
			stats.PausedSubscribers++
			continue
		case types.SubscriptionStatusSuspended:
			stats.Suspended++
			continue
		default:
			continue
		}

		plan, err := s.CatalogRepo.GetByVariationID(ctx, c.PlanVariationID)
		if err != nil {
			// A customer on a since-removed plan still counts as active
			// but contributes nothing to MRR
			if ierr.IsNotFound(err) {
				continue
			}
			return nil, err
		}

		stats.PlanDistribution[plan.Name]++
		mrr = mrr.Add(plan.Price)

		if len(c.SelectedAddons) > 0 {
			addons, err := s.CatalogRepo.ListByVariationIDs(ctx, c.SelectedAddons)
			if err != nil {
				return nil, err
			}
			for _, addon := range addons {
				mrr = mrr.Add(addon.Price)
			}
		}
	}
	stats.MonthlyRecurringRevenue = mrr

	s.Cache.Set(ctx, key, stats, statsCacheTTL)
	return stats, nil
}
