package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/skeeterman/lawnbill/internal/domain/customer"
	"github.com/skeeterman/lawnbill/internal/domain/gateway"
	"github.com/skeeterman/lawnbill/internal/domain/subscription"
	"github.com/skeeterman/lawnbill/internal/types"
)

// ActivateParams carries everything an activation (or plan change) needs
// once the order side effects are done. OrderTemplateID references the
// recurring order created by the orchestrator; StartDate defers the start to
// the plan's next active month when it is out of season.
type ActivateParams struct {
	CustomerID          string
	PlanVariationID     string
	RecurringAddonIDs   []string
	CardID              string
	OrderTemplateID     string
	StartDate           *time.Time
	SubscriptionIdemKey string
}

// LifecycleService owns every subscription status transition. All mutations
// run inside a transaction holding the customer's row lock, so the monthly
// scheduler and webhook handler serialize per customer. A gateway failure of
// any kind leaves local state untouched. The gateway call happens under that
// lock; the HTTP client enforces a hard deadline per call so a slow gateway
// cannot pin the lock.
type LifecycleService interface {
	// Activate creates the remote subscription (or swaps the plan when one
	// already exists), then records the new state and an audit event.
	Activate(ctx context.Context, params ActivateParams) (*customer.Customer, error)

	// Pause pauses an active subscription. The origin decides whether the
	// scheduler may later auto-resume it.
	Pause(ctx context.Context, customerID string, origin types.PauseOrigin) (*customer.Customer, error)

	// Resume resumes a paused subscription. A schedule-origin resume is only
	// legal when the pause itself was schedule-driven; a manual resume is
	// always permitted from paused.
	Resume(ctx context.Context, customerID string, origin types.PauseOrigin) (*customer.Customer, error)

	// Cancel cancels the subscription remotely and locally
	Cancel(ctx context.Context, customerID string) (*customer.Customer, error)

	// RecordPaymentFailure increments the consecutive failure counter and
	// suspends the subscription once the threshold is reached
	RecordPaymentFailure(ctx context.Context, customerID string) (*customer.Customer, error)

	// RecordPaymentSuccess resets the failure counter and, if suspended,
	// reactivates. This is the only path out of suspended.
	RecordPaymentSuccess(ctx context.Context, customerID string) (*customer.Customer, error)
}

type lifecycleService struct {
	ServiceParams
}

func NewLifecycleService(params ServiceParams) LifecycleService {
	return &lifecycleService{ServiceParams: params}
}

func (s *lifecycleService) Activate(ctx context.Context, params ActivateParams) (*customer.Customer, error) {
	var result *customer.Customer

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.CustomerRepo.GetForUpdate(ctx, params.CustomerID)
		if err != nil {
			return err
		}

		if !subscription.CanActivate(c.SubscriptionStatus) {
			return subscription.InvalidTransitionError(c.SubscriptionStatus, types.SubscriptionActionActivate)
		}

		action := types.SubscriptionActionActivate
		var res *gateway.SubscriptionResult

		// A live remote subscription gets its plan swapped in place; a
		// customer without one (including reactivation after cancel) always
		// gets a fresh remote subscription.
		if c.HasSubscription() && c.SubscriptionStatus != types.SubscriptionStatusCancelled {
			action = types.SubscriptionActionChangePlan
			res, err = s.Gateway.SwapSubscriptionPlan(ctx, &gateway.SwapPlanRequest{
				SubscriptionID:     c.GatewaySubscriptionID,
				NewPlanVariationID: params.PlanVariationID,
				OrderTemplateID:    params.OrderTemplateID,
			})
		} else {
			res, err = s.Gateway.CreateSubscription(ctx, &gateway.CreateSubscriptionRequest{
				GatewayCustomerID: c.GatewayCustomerID,
				PlanVariationID:   params.PlanVariationID,
				CardID:            params.CardID,
				OrderTemplateID:   params.OrderTemplateID,
				StartDate:         params.StartDate,
				IdempotencyKey:    params.SubscriptionIdemKey,
			})
		}
		if err != nil {
			return err
		}

		c.GatewaySubscriptionID = res.SubscriptionID
		c.PlanVariationID = params.PlanVariationID
		c.SelectedAddons = pq.StringArray(params.RecurringAddonIDs)
		c.SubscriptionStatus = types.SubscriptionStatusActive
		c.PausedBySchedule = false
		c.FailedPaymentAttempts = 0

		if err := s.CustomerRepo.Update(ctx, c); err != nil {
			return err
		}
		if err := s.appendEvent(ctx, c, action, ""); err != nil {
			return err
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("subscription activated",
		"customer_id", result.ID,
		"gateway_subscription_id", result.GatewaySubscriptionID,
		"plan_variation_id", result.PlanVariationID,
	)

	return result, nil
}

func (s *lifecycleService) Pause(ctx context.Context, customerID string, origin types.PauseOrigin) (*customer.Customer, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	var result *customer.Customer

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.CustomerRepo.GetForUpdate(ctx, customerID)
		if err != nil {
			return err
		}

		if !subscription.CanPause(c.SubscriptionStatus) {
			return subscription.InvalidTransitionError(c.SubscriptionStatus, types.SubscriptionActionPause)
		}

		if _, err := s.Gateway.PauseSubscription(ctx, c.GatewaySubscriptionID); err != nil {
			return err
		}

		c.SubscriptionStatus = types.SubscriptionStatusPaused
		c.PausedBySchedule = origin == types.PauseOriginSchedule

		if err := s.CustomerRepo.Update(ctx, c); err != nil {
			return err
		}
		if err := s.appendEvent(ctx, c, types.SubscriptionActionPause, fmt.Sprintf("origin=%s", origin)); err != nil {
			return err
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("subscription paused",
		"customer_id", result.ID,
		"origin", origin,
	)

	return result, nil
}

func (s *lifecycleService) Resume(ctx context.Context, customerID string, origin types.PauseOrigin) (*customer.Customer, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	var result *customer.Customer

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.CustomerRepo.GetForUpdate(ctx, customerID)
		if err != nil {
			return err
		}

		if !subscription.CanResume(c.SubscriptionStatus) {
			return subscription.InvalidTransitionError(c.SubscriptionStatus, types.SubscriptionActionResume)
		}

		// The scheduler may only undo its own pauses
		if origin == types.PauseOriginSchedule && !c.PausedBySchedule {
			return subscription.InvalidTransitionError(c.SubscriptionStatus, types.SubscriptionActionResume)
		}

		if _, err := s.Gateway.ResumeSubscription(ctx, c.GatewaySubscriptionID); err != nil {
			return err
		}

		c.SubscriptionStatus = types.SubscriptionStatusActive
		c.PausedBySchedule = false

		if err := s.CustomerRepo.Update(ctx, c); err != nil {
			return err
		}
		if err := s.appendEvent(ctx, c, types.SubscriptionActionResume, fmt.Sprintf("origin=%s", origin)); err != nil {
			return err
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("subscription resumed",
		"customer_id", result.ID,
		"origin", origin,
	)

	return result, nil
}

func (s *lifecycleService) Cancel(ctx context.Context, customerID string) (*customer.Customer, error) {
	var result *customer.Customer

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.CustomerRepo.GetForUpdate(ctx, customerID)
		if err != nil {
			return err
		}

		if !subscription.CanCancel(c.SubscriptionStatus) {
			return subscription.InvalidTransitionError(c.SubscriptionStatus, types.SubscriptionActionCancel)
		}

		if _, err := s.Gateway.CancelSubscription(ctx, c.GatewaySubscriptionID); err != nil {
			return err
		}

		c.SubscriptionStatus = types.SubscriptionStatusCancelled
		c.PausedBySchedule = false

		if err := s.CustomerRepo.Update(ctx, c); err != nil {
			return err
		}
		if err := s.appendEvent(ctx, c, types.SubscriptionActionCancel, ""); err != nil {
			return err
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("subscription cancelled",
		"customer_id", result.ID,
	)

	return result, nil
}

func (s *lifecycleService) RecordPaymentFailure(ctx context.Context, customerID string) (*customer.Customer, error) {
	threshold := s.Config.Billing.SuspensionThreshold
	if threshold <= 0 {
		threshold = types.SuspensionThreshold
	}

	var result *customer.Customer

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.CustomerRepo.GetForUpdate(ctx, customerID)
		if err != nil {
			return err
		}

		c.FailedPaymentAttempts++

		// Below the threshold failures accumulate silently; at the
		// threshold the subscription is suspended.
		if c.FailedPaymentAttempts >= threshold && c.SubscriptionStatus != types.SubscriptionStatusSuspended {
			c.SubscriptionStatus = types.SubscriptionStatusSuspended

			details := fmt.Sprintf("%d consecutive failed payment attempts", c.FailedPaymentAttempts)
			if err := s.appendEvent(ctx, c, types.SubscriptionActionSuspend, details); err != nil {
				return err
			}

			s.Logger.Warnw("subscription suspended after repeated payment failures",
				"customer_id", c.ID,
				"failed_attempts", c.FailedPaymentAttempts,
			)
		}

		if err := s.CustomerRepo.Update(ctx, c); err != nil {
			return err
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *lifecycleService) RecordPaymentSuccess(ctx context.Context, customerID string) (*customer.Customer, error) {
	var result *customer.Customer

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		c, err := s.CustomerRepo.GetForUpdate(ctx, customerID)
		if err != nil {
			return err
		}

		changed := false
		if c.FailedPaymentAttempts > 0 {
			c.FailedPaymentAttempts = 0
			changed = true
		}

		if c.SubscriptionStatus == types.SubscriptionStatusSuspended {
			c.SubscriptionStatus = types.SubscriptionStatusActive
			changed = true

			if err := s.appendEvent(ctx, c, types.SubscriptionActionActivate, "reinstated after payment success"); err != nil {
				return err
			}

			s.Logger.Infow("subscription reinstated after payment success",
				"customer_id", c.ID,
			)
		}

		if changed {
			if err := s.CustomerRepo.Update(ctx, c); err != nil {
				return err
			}
		}

		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *lifecycleService) appendEvent(ctx context.Context, c *customer.Customer, action types.SubscriptionAction, details string) error {
	event := &subscription.Event{
		ID:                    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION_EVENT),
		CustomerID:            c.ID,
		GatewaySubscriptionID: c.GatewaySubscriptionID,
		Action:                action,
		EffectiveDate:         time.Now().UTC(),
		Details:               details,
		BaseModel:             types.GetDefaultBaseModel(ctx),
	}
	return s.EventRepo.Create(ctx, event)
}
