package schedule

import (
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/types"
)

// PlanSchedule is the calendar month window in which a plan is sellable and
// active. Subscriptions on the plan are automatically paused during inactive
// months by the monthly scheduler.
type PlanSchedule struct {
	// ID is the unique identifier for the schedule
	ID string `db:"id" json:"id"`

	// PlanName is the plan this window applies to (Turf, Mosquito, ...)
	PlanName string `db:"plan_name" json:"plan_name"`

	// StartMonth is the first active month, 1-12 (January = 1)
	StartMonth int `db:"start_month" json:"start_month"`

	// EndMonth is the last active month, 1-12
	EndMonth int `db:"end_month" json:"end_month"`

	types.BaseModel
}

// IsMonthActive reports whether the given month (1-12) falls within the
// active range. Wrap-around ranges (e.g. Nov-Feb = 11-2) are supported.
func (s *PlanSchedule) IsMonthActive(month int) bool {
	if s.StartMonth <= s.EndMonth {
		// Normal range: Jan-Nov = 1-11
		return s.StartMonth <= month && month <= s.EndMonth
	}
	// Wrap-around range: e.g. Nov-Feb = 11-2
	return month >= s.StartMonth || month <= s.EndMonth
}

// NextActiveMonth returns the first active month at or after fromMonth,
// scanning forward at most a full year. A schedule with no active month at
// all returns fromMonth; callers treat that degenerate case as always-active.
func (s *PlanSchedule) NextActiveMonth(fromMonth int) int {
	for i := 0; i < 12; i++ {
		checkMonth := ((fromMonth-1+i)%12 + 1)
		if s.IsMonthActive(checkMonth) {
			return checkMonth
		}
	}
	return fromMonth
}

func (s *PlanSchedule) Validate() error {
	if s.PlanName == "" {
		return ierr.NewError("plan name is required").
			WithHint("Plan name is required").
			Mark(ierr.ErrValidation)
	}
	if s.StartMonth < 1 || s.StartMonth > 12 {
		return ierr.NewError("start month out of range").
			WithHint("Start month must be between 1 and 12").
			WithReportableDetails(map[string]any{
				"start_month": s.StartMonth,
			}).
			Mark(ierr.ErrValidation)
	}
	if s.EndMonth < 1 || s.EndMonth > 12 {
		return ierr.NewError("end month out of range").
			WithHint("End month must be between 1 and 12").
			WithReportableDetails(map[string]any{
				"end_month": s.EndMonth,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
