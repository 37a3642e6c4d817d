package testutil

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/skeeterman/lawnbill/internal/domain/schedule"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/types"
)

// InMemoryScheduleStore implements schedule.Repository
type InMemoryScheduleStore struct {
	*InMemoryStore[*schedule.PlanSchedule]
}

// NewInMemoryScheduleStore creates a new in-memory schedule store
func NewInMemoryScheduleStore() *InMemoryScheduleStore {
	return &InMemoryScheduleStore{
		InMemoryStore: NewInMemoryStore[*schedule.PlanSchedule](),
	}
}

func copySchedule(s *schedule.PlanSchedule) *schedule.PlanSchedule {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}

func (s *InMemoryScheduleStore) Create(ctx context.Context, sched *schedule.PlanSchedule) error {
	return s.InMemoryStore.Create(ctx, sched.ID, copySchedule(sched))
}

func (s *InMemoryScheduleStore) Get(ctx context.Context, id string) (*schedule.PlanSchedule, error) {
	sched, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("plan schedule not found").
			WithHintf("Plan schedule %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copySchedule(sched), nil
}

func (s *InMemoryScheduleStore) List(ctx context.Context) ([]*schedule.PlanSchedule, error) {
	filterFn := func(_ context.Context, sc *schedule.PlanSchedule, _ interface{}) bool {
		return sc.Status != types.StatusDeleted
	}

	items, err := s.InMemoryStore.List(ctx, nil, filterFn, scheduleSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(sc *schedule.PlanSchedule, _ int) *schedule.PlanSchedule {
		return copySchedule(sc)
	}), nil
}

func (s *InMemoryScheduleStore) GetByPlanName(ctx context.Context, planName string) (*schedule.PlanSchedule, error) {
	needle := strings.ToLower(planName)
	filterFn := func(_ context.Context, sc *schedule.PlanSchedule, _ interface{}) bool {
		if sc.Status == types.StatusDeleted {
			return false
		}
		name := strings.ToLower(sc.PlanName)
		return strings.Contains(needle, name) || strings.Contains(name, needle)
	}

	items, err := s.InMemoryStore.List(ctx, nil, filterFn, scheduleSortFn)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ierr.NewError("plan schedule not found").
			WithHintf("No schedule matches plan %s", planName).
			Mark(ierr.ErrNotFound)
	}
	return copySchedule(items[0]), nil
}

func (s *InMemoryScheduleStore) Update(ctx context.Context, sched *schedule.PlanSchedule) error {
	return s.InMemoryStore.Update(ctx, sched.ID, copySchedule(sched))
}

func (s *InMemoryScheduleStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

func scheduleSortFn(i, j *schedule.PlanSchedule) bool {
	return i.PlanName < j.PlanName
}
