package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/skeeterman/lawnbill/internal/domain/schedule"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/logger"
	"github.com/skeeterman/lawnbill/internal/postgres"
	"github.com/skeeterman/lawnbill/internal/types"
)

type scheduleRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

func NewScheduleRepository(db postgres.IClient, logger *logger.Logger) schedule.Repository {
	return &scheduleRepository{db: db, logger: logger}
}

const scheduleColumns = `
	id, plan_name, start_month, end_month,
	status, created_at, updated_at, created_by, updated_by`

func (r *scheduleRepository) Create(ctx context.Context, s *schedule.PlanSchedule) error {
	query := `
		INSERT INTO plan_schedules (
			id, plan_name, start_month, end_month,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :plan_name, :start_month, :end_month,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating plan schedule",
		"schedule_id", s.ID,
		"plan_name", s.PlanName,
	)

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, s)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create plan schedule").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *scheduleRepository) Get(ctx context.Context, id string) (*schedule.PlanSchedule, error) {
	var s schedule.PlanSchedule
	query := `SELECT ` + scheduleColumns + ` FROM plan_schedules WHERE id = $1 AND status != $2`
	err := r.db.Querier(ctx).GetContext(ctx, &s, query, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("plan schedule not found").
				WithHintf("Plan schedule %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get plan schedule").
			Mark(ierr.ErrDatabase)
	}
	return &s, nil
}

func (r *scheduleRepository) List(ctx context.Context) ([]*schedule.PlanSchedule, error) {
	var schedules []*schedule.PlanSchedule
	query := `SELECT ` + scheduleColumns + ` FROM plan_schedules WHERE status != $1 ORDER BY plan_name`
	err := r.db.Querier(ctx).SelectContext(ctx, &schedules, query, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list plan schedules").
			Mark(ierr.ErrDatabase)
	}
	return schedules, nil
}

func (r *scheduleRepository) GetByPlanName(ctx context.Context, planName string) (*schedule.PlanSchedule, error) {
	var s schedule.PlanSchedule
	// Substring match in either direction, so "Turf" resolves the schedule
	// named "Turf Care" and vice versa.
	query := `SELECT ` + scheduleColumns + `
		FROM plan_schedules
		WHERE ($1 ILIKE '%' || plan_name || '%' OR plan_name ILIKE '%' || $1 || '%')
			AND status != $2
		LIMIT 1`
	err := r.db.Querier(ctx).GetContext(ctx, &s, query, planName, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("plan schedule not found").
				WithHintf("No schedule matches plan %s", planName).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get plan schedule by name").
			Mark(ierr.ErrDatabase)
	}
	return &s, nil
}

func (r *scheduleRepository) Update(ctx context.Context, s *schedule.PlanSchedule) error {
	s.UpdatedAt = time.Now().UTC()
	s.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE plan_schedules SET
			plan_name = :plan_name,
			start_month = :start_month,
			end_month = :end_month,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	_, err := r.db.Querier(ctx).NamedExecContext(ctx, query, s)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update plan schedule").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE plan_schedules SET
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
			WithHint("Failed to delete plan schedule").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
