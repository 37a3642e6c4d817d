package schedule

import (
	"context"
)

// Repository defines the interface for plan schedule data access
type Repository interface {
	Create(ctx context.Context, schedule *PlanSchedule) error
	Get(ctx context.Context, id string) (*PlanSchedule, error)
	List(ctx context.Context) ([]*PlanSchedule, error)

	// GetByPlanName resolves a schedule by case-insensitive substring match
	// against the configured schedule names. The match is a documented
	// simplification carried over from how plans were originally keyed; it is
	// not a general search.
	GetByPlanName(ctx context.Context, planName string) (*PlanSchedule, error)

	Update(ctx context.Context, schedule *PlanSchedule) error
	Delete(ctx context.Context, id string) error
}
