package service

import (
	"context"
	"time"

	"github.com/skeeterman/lawnbill/internal/api/dto"
	"github.com/skeeterman/lawnbill/internal/domain/schedule"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/types"
)

// ScheduleService resolves seasonal activation windows for plans
type ScheduleService interface {
	// ResolveStartDate returns the date a subscription for the given plan
	// should begin. A nil date means the plan is in season and the
	// subscription starts immediately. Out of season, the result is the
	// first day of the next active month, rolling into the following year
	// when the window has already passed.
	ResolveStartDate(ctx context.Context, planName string, signupDate time.Time) (*time.Time, error)

	// IsPlanActiveInMonth reports whether the plan's schedule covers the
	// given month. A plan without a schedule is always active.
	IsPlanActiveInMonth(ctx context.Context, planName string, month int) (bool, error)

	CreateSchedule(ctx context.Context, req dto.CreatePlanScheduleRequest) (*dto.PlanScheduleResponse, error)

	// UpdateSchedule replaces the active window for an existing schedule
	UpdateSchedule(ctx context.Context, id string, req dto.UpdatePlanScheduleRequest) (*dto.PlanScheduleResponse, error)

	DeleteSchedule(ctx context.Context, id string) error
	ListSchedules(ctx context.Context) (*dto.ListPlanSchedulesResponse, error)
}

type scheduleService struct {
	ServiceParams
}

func NewScheduleService(params ServiceParams) ScheduleService {
	return &scheduleService{ServiceParams: params}
}

func (s *scheduleService) ResolveStartDate(ctx context.Context, planName string, signupDate time.Time) (*time.Time, error) {
	sched, err := s.ScheduleRepo.GetByPlanName(ctx, planName)
	if err != nil {
		if ierr.IsNotFound(err) {
			// No schedule: plan is always sellable, start immediately
			return nil, nil
		}
		return nil, err
	}

	signupMonth := int(signupDate.Month())
	if sched.IsMonthActive(signupMonth) {
		return nil, nil
	}

	startMonth := sched.NextActiveMonth(signupMonth)
	year := signupDate.Year()
	if startMonth < signupMonth {
		// The next window opens after December; roll into next year
		year++
	}

	start := time.Date(year, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)

	s.Logger.Infow("resolved deferred subscription start",
		"plan_name", planName,
		"signup_month", signupMonth,
		"start_date", start,
	)

	return &start, nil
}

func (s *scheduleService) IsPlanActiveInMonth(ctx context.Context, planName string, month int) (bool, error) {
	if month < 1 || month > 12 {
		return false, ierr.NewError("month out of range").
			WithHint("Month must be between 1 and 12").
			WithReportableDetails(map[string]any{
				"month": month,
			}).
			Mark(ierr.ErrValidation)
	}

	sched, err := s.ScheduleRepo.GetByPlanName(ctx, planName)
	if err != nil {
		if ierr.IsNotFound(err) {
			return true, nil
		}
		return false, err
	}

	return sched.IsMonthActive(month), nil
}

func (s *scheduleService) CreateSchedule(ctx context.Context, req dto.CreatePlanScheduleRequest) (*dto.PlanScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sched := &schedule.PlanSchedule{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN_SCHEDULE),
		PlanName:   req.PlanName,
		StartMonth: req.StartMonth,
		EndMonth:   req.EndMonth,
		BaseModel:  types.GetDefaultBaseModel(ctx),
	}

	if err := sched.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.CatalogRepo.GetPlanByName(ctx, req.PlanName); err != nil {
		if !ierr.IsNotFound(err) {
			return nil, err
		}
		// Schedules may be created ahead of catalog sync, so a missing
		// plan is not fatal
		s.Logger.Warnw("no catalog plan matches schedule name",
			"plan_name", req.PlanName,
		)
	}

	if err := s.ScheduleRepo.Create(ctx, sched); err != nil {
		return nil, err
	}

	return &dto.PlanScheduleResponse{PlanSchedule: sched}, nil
}

func (s *scheduleService) UpdateSchedule(ctx context.Context, id string, req dto.UpdatePlanScheduleRequest) (*dto.PlanScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sched, err := s.ScheduleRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sched.StartMonth = req.StartMonth
	sched.EndMonth = req.EndMonth
	if err := sched.Validate(); err != nil {
		return nil, err
	}

	if err := s.ScheduleRepo.Update(ctx, sched); err != nil {
		return nil, err
	}

	s.Logger.Infow("updated plan schedule",
		"schedule_id", sched.ID,
		"plan_name", sched.PlanName,
		"start_month", sched.StartMonth,
		"end_month", sched.EndMonth,
	)

	return &dto.PlanScheduleResponse{PlanSchedule: sched}, nil
}

func (s *scheduleService) DeleteSchedule(ctx context.Context, id string) error {
	sched, err := s.ScheduleRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.ScheduleRepo.Delete(ctx, sched.ID); err != nil {
		return err
	}

	s.Logger.Infow("deleted plan schedule",
		"schedule_id", sched.ID,
		"plan_name", sched.PlanName,
	)
	return nil
}

func (s *scheduleService) ListSchedules(ctx context.Context) (*dto.ListPlanSchedulesResponse, error) {
	schedules, err := s.ScheduleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListPlanSchedulesResponse{
		Items: make([]*dto.PlanScheduleResponse, len(schedules)),
		Total: len(schedules),
	}
	for i, sched := range schedules {
		resp.Items[i] = &dto.PlanScheduleResponse{PlanSchedule: sched}
	}
	return resp, nil
}
