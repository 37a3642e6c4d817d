package service

import (
	"testing"
	"time"

	"github.com/skeeterman/lawnbill/internal/api/dto"
	"github.com/skeeterman/lawnbill/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type ScheduleServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ScheduleService
}

func TestScheduleService(t *testing.T) {
	suite.Run(t, new(ScheduleServiceSuite))
}

func (s *ScheduleServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewScheduleService(newTestParams(&s.BaseServiceTestSuite))
}

func (s *ScheduleServiceSuite) TestResolveStartDateInSeason() {
	sched := newTestSchedule("Turf Care", 3, 10)
	s.NoError(s.GetStores().ScheduleRepo.Create(s.GetContext(), sched))

	signup := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	start, err := s.service.ResolveStartDate(s.GetContext(), "Turf Care", signup)
	s.NoError(err)
	s.Nil(start, "in-season signup starts immediately")
}

func (s *ScheduleServiceSuite) TestResolveStartDateOutOfSeason() {
	sched := newTestSchedule("Turf Care", 3, 10)
	s.NoError(s.GetStores().ScheduleRepo.Create(s.GetContext(), sched))

	signup := time.Date(2026, time.December, 5, 0, 0, 0, 0, time.UTC)
	start, err := s.service.ResolveStartDate(s.GetContext(), "Turf Care", signup)
	s.NoError(err)
	s.NotNil(start)
	s.Equal(time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC), *start)
}

func (s *ScheduleServiceSuite) TestResolveStartDateRollsIntoNextYear() {
	// Window that already closed this year: Jan-Feb, signup in June
	sched := newTestSchedule("Winter Pest Shield", 1, 2)
	s.NoError(s.GetStores().ScheduleRepo.Create(s.GetContext(), sched))

	signup := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	start, err := s.service.ResolveStartDate(s.GetContext(), "Winter Pest Shield", signup)
	s.NoError(err)
	s.NotNil(start)
	s.Equal(time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), *start)
}

func (s *ScheduleServiceSuite) TestResolveStartDateWrapAround() {
	sched := newTestSchedule("Mosquito Defense", 11, 2)
	s.NoError(s.GetStores().ScheduleRepo.Create(s.GetContext(), sched))

	// July signup: next window opens in November of the same year
	signup := time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)
	start, err := s.service.ResolveStartDate(s.GetContext(), "Mosquito Defense", signup)
	s.NoError(err)
	s.NotNil(start)
	s.Equal(time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC), *start)

	// January signup: inside the wrapped window, starts immediately
	signup = time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	start, err = s.service.ResolveStartDate(s.GetContext(), "Mosquito Defense", signup)
	s.NoError(err)
	s.Nil(start)
}

func (s *ScheduleServiceSuite) TestResolveStartDateNoSchedule() {
	signup := time.Date(2026, time.December, 5, 0, 0, 0, 0, time.UTC)
	start, err := s.service.ResolveStartDate(s.GetContext(), "Unscheduled Plan", signup)
	s.NoError(err)
	s.Nil(start, "plans without a schedule start immediately")
}

func (s *ScheduleServiceSuite) TestResolveStartDateSubstringMatch() {
	sched := newTestSchedule("Turf", 3, 10)
	s.NoError(s.GetStores().ScheduleRepo.Create(s.GetContext(), sched))

	signup := time.Date(2026, time.December, 5, 0, 0, 0, 0, time.UTC)
	start, err := s.service.ResolveStartDate(s.GetContext(), "Turf Care Premium", signup)
	s.NoError(err)
	s.NotNil(start, "schedule resolves by substring of the plan name")
}

func (s *ScheduleServiceSuite) TestIsPlanActiveInMonth() {
	sched := newTestSchedule("Turf Care", 3, 10)
	s.NoError(s.GetStores().ScheduleRepo.Create(s.GetContext(), sched))

	active, err := s.service.IsPlanActiveInMonth(s.GetContext(), "Turf Care", 6)
	s.NoError(err)
	s.True(active)

	active, err = s.service.IsPlanActiveInMonth(s.GetContext(), "Turf Care", 12)
	s.NoError(err)
	s.False(active)

	// No schedule means always active
	active, err = s.service.IsPlanActiveInMonth(s.GetContext(), "Unscheduled", 12)
	s.NoError(err)
	s.True(active)

	_, err = s.service.IsPlanActiveInMonth(s.GetContext(), "Turf Care", 13)
	s.Error(err)
}

func (s *ScheduleServiceSuite) TestCreateAndListSchedules() {
	resp, err := s.service.CreateSchedule(s.GetContext(), dto.CreatePlanScheduleRequest{
		PlanName:   "Turf Care",
		StartMonth: 3,
		EndMonth:   10,
	})
	s.NoError(err)
	s.NotEmpty(resp.ID)

	_, err = s.service.CreateSchedule(s.GetContext(), dto.CreatePlanScheduleRequest{
		PlanName:   "Bad",
		StartMonth: 0,
		EndMonth:   10,
	})
	s.Error(err)

	list, err := s.service.ListSchedules(s.GetContext())
	s.NoError(err)
	s.Equal(1, list.Total)
}

func (s *ScheduleServiceSuite) TestUpdateSchedule() {
	created, err := s.service.CreateSchedule(s.GetContext(), dto.CreatePlanScheduleRequest{
		PlanName:   "Turf Care",
		StartMonth: 3,
		EndMonth:   10,
	})
	s.NoError(err)

	updated, err := s.service.UpdateSchedule(s.GetContext(), created.ID, dto.UpdatePlanScheduleRequest{
		StartMonth: 4,
		EndMonth:   9,
	})
	s.NoError(err)
	s.Equal(4, updated.StartMonth)
	s.Equal(9, updated.EndMonth)

	active, err := s.service.IsPlanActiveInMonth(s.GetContext(), "Turf Care", 3)
	s.NoError(err)
	s.False(active, "the old window no longer applies")

	_, err = s.service.UpdateSchedule(s.GetContext(), created.ID, dto.UpdatePlanScheduleRequest{
		StartMonth: 13,
		EndMonth:   9,
	})
	s.Error(err)
}

func (s *ScheduleServiceSuite) TestDeleteScheduleMakesPlanAlwaysActive() {
	created, err := s.service.CreateSchedule(s.GetContext(), dto.CreatePlanScheduleRequest{
		PlanName:   "Turf Care",
		StartMonth: 3,
		EndMonth:   10,
	})
	s.NoError(err)

	s.NoError(s.service.DeleteSchedule(s.GetContext(), created.ID))

	active, err := s.service.IsPlanActiveInMonth(s.GetContext(), "Turf Care", 12)
	s.NoError(err)
	s.True(active)
}
