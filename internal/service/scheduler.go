package service

import (
	"context"

	"github.com/skeeterman/lawnbill/internal/api/dto"
	"github.com/skeeterman/lawnbill/internal/domain/customer"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/types"
)

// SchedulerService is the monthly batch driver: it walks every subscribed
// customer, asks the schedule whether their plan is in season, and pauses or
// resumes accordingly. Re-running in the same month with no intervening state
// change produces zero additional transitions.
type SchedulerService interface {
	// ProcessMonth applies seasonal pauses and resumes for the given month
	// (1-12). In dry-run mode every decision is computed and reported but
	// no state mutation or gateway call occurs.
	ProcessMonth(ctx context.Context, month int, dryRun bool) (*dto.SchedulerRunResult, error)
}

type schedulerService struct {
	ServiceParams

	lifecycle LifecycleService
	schedules ScheduleService
}

func NewSchedulerService(params ServiceParams) SchedulerService {
	return &schedulerService{
		ServiceParams: params,
		lifecycle:     NewLifecycleService(params),
		schedules:     NewScheduleService(params),
	}
}

func (s *schedulerService) ProcessMonth(ctx context.Context, month int, dryRun bool) (*dto.SchedulerRunResult, error) {
	if month < 1 || month > 12 {
		return nil, ierr.NewError("month out of range").
			WithHint("Month must be between 1 and 12").
			WithReportableDetails(map[string]any{
				"month": month,
			}).
			Mark(ierr.ErrValidation)
	}

	customers, err := s.CustomerRepo.ListWithSubscription(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.SchedulerRunResult{
		Month:  month,
		DryRun: dryRun,
	}

	s.Logger.Infow("monthly scheduler run started",
		"month", month,
		"dry_run", dryRun,
		"customers", len(customers),
	)

	for _, c := range customers {
		action, err := s.processCustomer(ctx, c, month, dryRun)
		if err != nil {
			// One broken customer never stops the batch
			result.Errors = append(result.Errors, dto.SchedulerCustomerError{
				CustomerID: c.ID,
				Error:      err.Error(),
			})
			s.Logger.Errorw("scheduler failed to process customer",
				"customer_id", c.ID,
				"error", err,
			)
			continue
		}

		switch action {
		case types.SubscriptionActionPause:
			result.Paused = append(result.Paused, c.ID)
		case types.SubscriptionActionResume:
			result.Resumed = append(result.Resumed, c.ID)
		default:
			result.Skipped++
		}
	}

	s.Logger.Infow("monthly scheduler run finished",
		"month", month,
		"dry_run", dryRun,
		"paused", len(result.Paused),
		"resumed", len(result.Resumed),
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)

	return result, nil
}

// processCustomer decides and applies at most one transition for one
// customer. The empty action means no transition was needed.
func (s *schedulerService) processCustomer(ctx context.Context, c *customer.Customer, month int, dryRun bool) (types.SubscriptionAction, error) {
	if c.PlanVariationID == "" {
		return "", nil
	}

	plan, err := s.CatalogRepo.GetByVariationID(ctx, c.PlanVariationID)
	if err != nil {
		return "", err
	}

	active, err := s.schedules.IsPlanActiveInMonth(ctx, plan.Name, month)
	if err != nil {
		return "", err
	}

	switch {
	case !active && c.SubscriptionStatus == types.SubscriptionStatusActive:
		if !dryRun {
			if _, err := s.lifecycle.Pause(ctx, c.ID, types.PauseOriginSchedule); err != nil {
				return "", err
			}
		}
		return types.SubscriptionActionPause, nil

	case active && c.SubscriptionStatus == types.SubscriptionStatusPaused && c.PausedBySchedule:
		// Manual pauses are left alone; only schedule-driven pauses are
		// undone when the season reopens.
		if !dryRun {
			if _, err := s.lifecycle.Resume(ctx, c.ID, types.PauseOriginSchedule); err != nil {
				return "", err
			}
		}
		return types.SubscriptionActionResume, nil
	}

	return "", nil
}
