package service

import (
	"testing"

	"github.com/skeeterman/lawnbill/internal/domain/customer"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/testutil"
	"github.com/skeeterman/lawnbill/internal/types"
	"github.com/stretchr/testify/suite"
)

type SchedulerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SchedulerService
}

func TestSchedulerService(t *testing.T) {
	suite.Run(t, new(SchedulerServiceSuite))
}

func (s *SchedulerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewSchedulerService(newTestParams(&s.BaseServiceTestSuite))

	stores := s.GetStores()
	s.NoError(stores.CatalogRepo.Create(s.GetContext(), newTestPlan("Turf Care Premium", "var-turf", "120.00")))
	s.NoError(stores.CatalogRepo.Create(s.GetContext(), newTestPlan("Mosquito Shield", "var-mosquito", "65.00")))
	// Turf runs March-October, Mosquito wraps November-February
	s.NoError(stores.ScheduleRepo.Create(s.GetContext(), newTestSchedule("Turf Care", 3, 10)))
	s.NoError(stores.ScheduleRepo.Create(s.GetContext(), newTestSchedule("Mosquito", 11, 2)))
}

func (s *SchedulerServiceSuite) seedSubscriber(planVariationID string, status types.SubscriptionStatus, pausedBySchedule bool) *customer.Customer {
	c := newTestCustomer(status)
	c.PlanVariationID = planVariationID
	c.PausedBySchedule = pausedBySchedule
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))
	return c
}

func (s *SchedulerServiceSuite) TestPausesOutOfSeason() {
	turf := s.seedSubscriber("var-turf", types.SubscriptionStatusActive, false)
	mosquito := s.seedSubscriber("var-mosquito", types.SubscriptionStatusActive, false)

	// December: turf is out of season, mosquito is in season
	result, err := s.service.ProcessMonth(s.GetContext(), 12, false)
	s.NoError(err)

	s.Equal([]string{turf.ID}, result.Paused)
	s.Empty(result.Resumed)
	s.Equal(1, result.Skipped)
	s.False(result.HasErrors())

	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), turf.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusPaused, stored.SubscriptionStatus)
	s.True(stored.PausedBySchedule)

	stored, err = s.GetStores().CustomerRepo.Get(s.GetContext(), mosquito.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, stored.SubscriptionStatus)
}

func (s *SchedulerServiceSuite) TestResumesWhenSeasonReopens() {
	turf := s.seedSubscriber("var-turf", types.SubscriptionStatusPaused, true)

	result, err := s.service.ProcessMonth(s.GetContext(), 3, false)
	s.NoError(err)

	s.Equal([]string{turf.ID}, result.Resumed)
	s.Empty(result.Paused)

	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), turf.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, stored.SubscriptionStatus)
	s.False(stored.PausedBySchedule)
}

func (s *SchedulerServiceSuite) TestManualPauseNeverAutoResumed() {
	turf := s.seedSubscriber("var-turf", types.SubscriptionStatusPaused, false)

	result, err := s.service.ProcessMonth(s.GetContext(), 6, false)
	s.NoError(err)

	s.Empty(result.Resumed)
	s.Equal(1, result.Skipped)
	s.Equal(0, s.GetGateway().Calls(testutil.OpResumeSub))

	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), turf.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusPaused, stored.SubscriptionStatus)
}

func (s *SchedulerServiceSuite) TestRerunSameMonthIsIdempotent() {
	s.seedSubscriber("var-turf", types.SubscriptionStatusActive, false)

	first, err := s.service.ProcessMonth(s.GetContext(), 12, false)
	s.NoError(err)
	s.Len(first.Paused, 1)

	second, err := s.service.ProcessMonth(s.GetContext(), 12, false)
	s.NoError(err)
	s.Empty(second.Paused)
	s.Empty(second.Resumed)
	s.Equal(1, second.Skipped)
	s.Equal(1, s.GetGateway().Calls(testutil.OpPauseSub), "no second gateway pause")
}

func (s *SchedulerServiceSuite) TestDryRunReportsWithoutMutating() {
	turf := s.seedSubscriber("var-turf", types.SubscriptionStatusActive, false)

	result, err := s.service.ProcessMonth(s.GetContext(), 12, true)
	s.NoError(err)

	s.True(result.DryRun)
	s.Equal([]string{turf.ID}, result.Paused)
	s.Equal(0, s.GetGateway().Calls(testutil.OpPauseSub))

	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), turf.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, stored.SubscriptionStatus)
}

func (s *SchedulerServiceSuite) TestOneFailureNeverStopsTheBatch() {
	broken := s.seedSubscriber("var-gone", types.SubscriptionStatusActive, false)
	healthy := s.seedSubscriber("var-turf", types.SubscriptionStatusActive, false)

	result, err := s.service.ProcessMonth(s.GetContext(), 12, false)
	s.NoError(err)

	s.Len(result.Errors, 1)
	s.Equal(broken.ID, result.Errors[0].CustomerID)
	s.True(result.HasErrors())
	s.Equal([]string{healthy.ID}, result.Paused, "the batch continued past the failure")
}

func (s *SchedulerServiceSuite) TestPlanWithoutScheduleAlwaysInSeason() {
	s.NoError(s.GetStores().CatalogRepo.Create(s.GetContext(), newTestPlan("Tree Care", "var-tree", "90.00")))
	tree := s.seedSubscriber("var-tree", types.SubscriptionStatusActive, false)

	result, err := s.service.ProcessMonth(s.GetContext(), 1, false)
	s.NoError(err)

	s.Empty(result.Paused)
	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), tree.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, stored.SubscriptionStatus)
}

func (s *SchedulerServiceSuite) TestMonthOutOfRange() {
	_, err := s.service.ProcessMonth(s.GetContext(), 13, false)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
