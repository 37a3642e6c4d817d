package service

import (
	"testing"

	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/testutil"
	"github.com/skeeterman/lawnbill/internal/types"
	"github.com/stretchr/testify/suite"
)

type LifecycleServiceSuite struct {
	testutil.BaseServiceTestSuite
	service LifecycleService
}

func TestLifecycleService(t *testing.T) {
	suite.Run(t, new(LifecycleServiceSuite))
}

func (s *LifecycleServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewLifecycleService(newTestParams(&s.BaseServiceTestSuite))
}

func (s *LifecycleServiceSuite) activateParams(customerID string) ActivateParams {
	return ActivateParams{
		CustomerID:      customerID,
		PlanVariationID: "var-plan",
		CardID:          "gw-card-1",
		OrderTemplateID: "gw-order-1",
	}
}

func (s *LifecycleServiceSuite) TestActivateFromNone() {
	c := newTestCustomer(types.SubscriptionStatusNone)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	updated, err := s.service.Activate(s.GetContext(), s.activateParams(c.ID))
	s.NoError(err)

	s.Equal(types.SubscriptionStatusActive, updated.SubscriptionStatus)
	s.NotEmpty(updated.GatewaySubscriptionID)
	s.Equal("var-plan", updated.PlanVariationID)
	s.Equal(1, s.GetGateway().Calls(testutil.OpCreateSub))

	events, err := s.GetStores().EventRepo.ListByCustomer(s.GetContext(), c.ID)
	s.NoError(err)
	s.Len(events, 1)
	s.Equal(types.SubscriptionActionActivate, events[0].Action)
}

func (s *LifecycleServiceSuite) TestActivateSwapsPlanWhenSubscribed() {
	c := newTestCustomer(types.SubscriptionStatusPaused)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	updated, err := s.service.Activate(s.GetContext(), s.activateParams(c.ID))
	s.NoError(err)

	s.Equal(types.SubscriptionStatusActive, updated.SubscriptionStatus)
	s.Equal(c.GatewaySubscriptionID, updated.GatewaySubscriptionID, "plan swap keeps the remote subscription")
	s.Equal(1, s.GetGateway().Calls(testutil.OpSwapPlan))
	s.Equal(0, s.GetGateway().Calls(testutil.OpCreateSub))

	events, err := s.GetStores().EventRepo.ListByCustomer(s.GetContext(), c.ID)
	s.NoError(err)
	s.Len(events, 1)
	s.Equal(types.SubscriptionActionChangePlan, events[0].Action)
}

func (s *LifecycleServiceSuite) TestReactivationFromCancelledCreatesFreshSubscription() {
	c := newTestCustomer(types.SubscriptionStatusCancelled)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	updated, err := s.service.Activate(s.GetContext(), s.activateParams(c.ID))
	s.NoError(err)

	s.Equal(1, s.GetGateway().Calls(testutil.OpCreateSub))
	s.Equal(0, s.GetGateway().Calls(testutil.OpSwapPlan))
	s.NotEqual(c.GatewaySubscriptionID, updated.GatewaySubscriptionID, "cancelled remote id is never resumed")
}

func (s *LifecycleServiceSuite) TestActivateInvalidFromActive() {
	c := newTestCustomer(types.SubscriptionStatusActive)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	_, err := s.service.Activate(s.GetContext(), s.activateParams(c.ID))
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))
}

func (s *LifecycleServiceSuite) TestActivateGatewayRejectedLeavesStateUntouched() {
	c := newTestCustomer(types.SubscriptionStatusNone)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))
	s.GetGateway().FailWith(testutil.OpCreateSub, testutil.GatewayRejectedErr("card declined"))

	_, err := s.service.Activate(s.GetContext(), s.activateParams(c.ID))
	s.Error(err)
	s.True(ierr.IsGatewayRejected(err))

	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusNone, stored.SubscriptionStatus)
	s.Empty(stored.GatewaySubscriptionID)

	events, err := s.GetStores().EventRepo.ListByCustomer(s.GetContext(), c.ID)
	s.NoError(err)
	s.Empty(events)
}

func (s *LifecycleServiceSuite) TestPauseAndOrigin() {
	c := newTestCustomer(types.SubscriptionStatusActive)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	updated, err := s.service.Pause(s.GetContext(), c.ID, types.PauseOriginSchedule)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusPaused, updated.SubscriptionStatus)
	s.True(updated.PausedBySchedule)

	// Pausing a paused subscription is illegal
	_, err = s.service.Pause(s.GetContext(), c.ID, types.PauseOriginManual)
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))
}

func (s *LifecycleServiceSuite) TestManualPauseNotSchedulable() {
	c := newTestCustomer(types.SubscriptionStatusActive)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	_, err := s.service.Pause(s.GetContext(), c.ID, types.PauseOriginManual)
	s.NoError(err)

	// The scheduler must not resume a manual pause
	_, err = s.service.Resume(s.GetContext(), c.ID, types.PauseOriginSchedule)
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))

	// The customer themselves always can
	updated, err := s.service.Resume(s.GetContext(), c.ID, types.PauseOriginManual)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, updated.SubscriptionStatus)
	s.False(updated.PausedBySchedule)
}

func (s *LifecycleServiceSuite) TestScheduleResumeOfSchedulePause() {
	c := newTestCustomer(types.SubscriptionStatusActive)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	_, err := s.service.Pause(s.GetContext(), c.ID, types.PauseOriginSchedule)
	s.NoError(err)

	updated, err := s.service.Resume(s.GetContext(), c.ID, types.PauseOriginSchedule)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, updated.SubscriptionStatus)
	s.False(updated.PausedBySchedule)
}

func (s *LifecycleServiceSuite) TestPauseGatewayTimeoutLeavesStateUntouched() {
	c := newTestCustomer(types.SubscriptionStatusActive)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))
	s.GetGateway().FailWith(testutil.OpPauseSub, testutil.GatewayTimeoutErr())

	_, err := s.service.Pause(s.GetContext(), c.ID, types.PauseOriginManual)
	s.Error(err)
	s.True(ierr.IsGatewayTimeout(err), "indeterminate outcome surfaces distinguishably")

	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, stored.SubscriptionStatus)
}

func (s *LifecycleServiceSuite) TestCancel() {
	c := newTestCustomer(types.SubscriptionStatusActive)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	updated, err := s.service.Cancel(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusCancelled, updated.SubscriptionStatus)

	// Cancel is terminal
	_, err = s.service.Cancel(s.GetContext(), c.ID)
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))
}

func (s *LifecycleServiceSuite) TestThreeStrikeSuspension() {
	c := newTestCustomer(types.SubscriptionStatusActive)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	for i := 0; i < 2; i++ {
		updated, err := s.service.RecordPaymentFailure(s.GetContext(), c.ID)
		s.NoError(err)
		s.Equal(types.SubscriptionStatusActive, updated.SubscriptionStatus, "below threshold failures accumulate silently")
	}

	updated, err := s.service.RecordPaymentFailure(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusSuspended, updated.SubscriptionStatus)
	s.Equal(3, updated.FailedPaymentAttempts)

	events, err := s.GetStores().EventRepo.ListByCustomer(s.GetContext(), c.ID)
	s.NoError(err)
	s.Len(events, 1)
	s.Equal(types.SubscriptionActionSuspend, events[0].Action)
	s.NotEmpty(events[0].Details)
}

func (s *LifecycleServiceSuite) TestPaymentSuccessResetsCounter() {
	c := newTestCustomer(types.SubscriptionStatusActive)
	c.FailedPaymentAttempts = 2
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	updated, err := s.service.RecordPaymentSuccess(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(0, updated.FailedPaymentAttempts)
	s.Equal(types.SubscriptionStatusActive, updated.SubscriptionStatus)
}

func (s *LifecycleServiceSuite) TestPaymentSuccessReinstatesSuspended() {
	c := newTestCustomer(types.SubscriptionStatusSuspended)
	c.FailedPaymentAttempts = 3
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	updated, err := s.service.RecordPaymentSuccess(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, updated.SubscriptionStatus)
	s.Equal(0, updated.FailedPaymentAttempts)

	events, err := s.GetStores().EventRepo.ListByCustomer(s.GetContext(), c.ID)
	s.NoError(err)
	s.Len(events, 1)
	s.Equal(types.SubscriptionActionActivate, events[0].Action)
}
