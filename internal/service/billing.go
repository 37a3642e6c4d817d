package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/skeeterman/lawnbill/internal/api/dto"
	"github.com/skeeterman/lawnbill/internal/domain/billing"
	"github.com/skeeterman/lawnbill/internal/domain/catalog"
	"github.com/skeeterman/lawnbill/internal/domain/gateway"
	"github.com/skeeterman/lawnbill/internal/domain/subscription"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/idempotency"
	"github.com/skeeterman/lawnbill/internal/types"
)

// BillingService orchestrates subscription changes: the upfront one-time
// charge, the recurring order template, and the subscription itself.
type BillingService interface {
	// ChangeSubscription activates a subscription or changes its plan and
	// add-ons. One-time add-ons are charged upfront all-or-nothing before
	// any subscription change is attempted; a failure after that charge
	// leaves the billing attempt intact (money was legitimately taken)
	// while the subscription stays unchanged.
	ChangeSubscription(ctx context.Context, customerID string, req dto.ChangeSubscriptionRequest) (*dto.ChangeSubscriptionResponse, error)

	// PreviewOrder assembles pricing without any side effects
	PreviewOrder(ctx context.Context, req dto.ChangeSubscriptionRequest) (*dto.PricingPreview, error)

	// GetBillingHistory returns a customer's billing attempts and payments
	GetBillingHistory(ctx context.Context, customerID string) (*dto.BillingHistoryResponse, error)
}

type billingService struct {
	ServiceParams

	pricing   PricingService
	lifecycle LifecycleService
	schedules ScheduleService
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{
		ServiceParams: params,
		pricing:       NewPricingService(params),
		lifecycle:     NewLifecycleService(params),
		schedules:     NewScheduleService(params),
	}
}

func (s *billingService) ChangeSubscription(ctx context.Context, customerID string, req dto.ChangeSubscriptionRequest) (*dto.ChangeSubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.CustomerRepo.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	// Reject illegal transitions before any money moves. The locked
	// re-check inside Activate is still authoritative; this guard keeps a
	// doomed request from taking the upfront charge first.
	if !subscription.CanActivate(c.SubscriptionStatus) {
		return nil, subscription.InvalidTransitionError(c.SubscriptionStatus, types.SubscriptionActionActivate)
	}

	card, err := s.PaymentMethodRepo.GetDefaultByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	recurring, oneTime, err := s.pricing.PartitionAddons(ctx, req.AddonVariationIDs)
	if err != nil {
		return nil, err
	}

	resp := &dto.ChangeSubscriptionResponse{CustomerID: c.ID}

	// One-time add-ons are charged before anything else; if the charge
	// fails the whole operation aborts with the subscription untouched.
	if len(oneTime) > 0 {
		attempt, err := s.chargeOneTimeAddons(ctx, c.ID, card, oneTime)
		if err != nil {
			return nil, err
		}
		resp.OneTimeCharge = dto.NewBillingAttemptResponse(attempt)
	}

	recurringIDs := lo.Map(recurring, func(item *catalog.Item, _ int) string {
		return item.VariationID
	})

	preview, err := s.pricing.AssembleOrder(ctx, req.PlanVariationID, recurringIDs)
	if err != nil {
		return nil, err
	}

	orderKey := s.IdempGen.GenerateKey(idempotency.ScopeOrder, map[string]interface{}{
		"customer_id": c.ID,
		"attempt":     uuid.NewString(),
	})
	order, err := s.Gateway.CreateOrder(ctx, &gateway.CreateOrderRequest{
		LineItems:      preview.LineItems,
		IdempotencyKey: orderKey,
	})
	if err != nil {
		return nil, err
	}

	startDate, err := s.resolveStartDate(ctx, req.PlanVariationID)
	if err != nil {
		return nil, err
	}

	subKey := s.IdempGen.GenerateKey(idempotency.ScopeSubscription, map[string]interface{}{
		"customer_id": c.ID,
		"attempt":     uuid.NewString(),
	})
	updated, err := s.lifecycle.Activate(ctx, ActivateParams{
		CustomerID:          c.ID,
		PlanVariationID:     req.PlanVariationID,
		RecurringAddonIDs:   recurringIDs,
		CardID:              card.GatewayCardID,
		OrderTemplateID:     order.OrderID,
		StartDate:           startDate,
		SubscriptionIdemKey: subKey,
	})
	if err != nil {
		return nil, err
	}

	resp.GatewaySubscriptionID = updated.GatewaySubscriptionID
	resp.SubscriptionStatus = updated.SubscriptionStatus
	resp.StartDate = startDate
	resp.RecurringTotal = preview.Total

	return resp, nil
}

func (s *billingService) PreviewOrder(ctx context.Context, req dto.ChangeSubscriptionRequest) (*dto.PricingPreview, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.pricing.AssembleOrder(ctx, req.PlanVariationID, req.AddonVariationIDs)
}

func (s *billingService) GetBillingHistory(ctx context.Context, customerID string) (*dto.BillingHistoryResponse, error) {
	if _, err := s.CustomerRepo.Get(ctx, customerID); err != nil {
		return nil, err
	}

	attempts, err := s.AttemptRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	payments, err := s.PaymentRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &dto.BillingHistoryResponse{
		Attempts: lo.Map(attempts, func(a *billing.Attempt, _ int) *dto.BillingAttemptResponse {
			return dto.NewBillingAttemptResponse(a)
		}),
		Payments: lo.Map(payments, func(p *billing.Payment, _ int) *dto.PaymentResponse {
			return &dto.PaymentResponse{Payment: p}
		}),
	}, nil
}

// chargeOneTimeAddons takes the upfront payment for one-time add-ons and
// records the attempt and payment. Add-ons here are billing events only;
// they are never written into the customer's standing selection.
func (s *billingService) chargeOneTimeAddons(ctx context.Context, customerID string, card *billing.PaymentMethod, oneTime []*catalog.Item) (*billing.Attempt, error) {
	ids := lo.Map(oneTime, func(item *catalog.Item, _ int) string {
		return item.VariationID
	})

	preview, err := s.pricing.AssembleAddons(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Fresh key per logical attempt; transient retries inside the gateway
	// client reuse it so a double-send cannot double-charge.
	chargeKey := s.IdempGen.GenerateKey(idempotency.ScopeCharge, map[string]interface{}{
		"customer_id": customerID,
		"attempt":     uuid.NewString(),
	})

	charge, err := s.Gateway.Charge(ctx, &gateway.ChargeRequest{
		SourceID:       card.GatewayCardID,
		AmountCents:    preview.Total.Mul(decimalHundred).IntPart(),
		Currency:       "USD",
		IdempotencyKey: chargeKey,
	})
	if err != nil {
		return nil, err
	}

	attempt := &billing.Attempt{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BILLING_ATTEMPT),
		Number:           types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_BILLING_ATTEMPT),
		CustomerID:       customerID,
		Items:            preview.LineItems,
		Subtotal:         preview.Subtotal,
		Fee:              preview.Fee,
		Total:            preview.Total,
		GatewayPaymentID: charge.PaymentID,
		IdempotencyKey:   chargeKey,
		AttemptStatus:    types.BillingAttemptStatusPaid,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
	if err := s.AttemptRepo.Create(ctx, attempt); err != nil {
		return nil, err
	}

	payment := &billing.Payment{
		ID:                   types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		CustomerID:           customerID,
		Amount:               preview.Total,
		PaymentStatus:        types.BillingAttemptStatusPaid,
		GatewayTransactionID: charge.PaymentID,
		BaseModel:            types.GetDefaultBaseModel(ctx),
	}
	if err := s.PaymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.Logger.Infow("charged one-time add-ons",
		"customer_id", customerID,
		"attempt_number", attempt.Number,
		"total", attempt.Total,
	)

	return attempt, nil
}

// resolveStartDate defers the subscription start when the plan is out of
// season
func (s *billingService) resolveStartDate(ctx context.Context, planVariationID string) (*time.Time, error) {
	plan, err := s.CatalogRepo.GetByVariationID(ctx, planVariationID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, ierr.NewError("plan not found").
				WithHintf("No plan in the catalog for variation %s", planVariationID).
				Mark(ierr.ErrNotFound)
		}
		return nil, err
	}

	return s.schedules.ResolveStartDate(ctx, plan.Name, time.Now().UTC())
}
