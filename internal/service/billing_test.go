package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skeeterman/lawnbill/internal/api/dto"
	"github.com/skeeterman/lawnbill/internal/domain/billing"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/testutil"
	"github.com/skeeterman/lawnbill/internal/types"
	"github.com/stretchr/testify/suite"
)

type BillingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service BillingService
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewBillingService(newTestParams(&s.BaseServiceTestSuite))

	stores := s.GetStores()
	s.NoError(stores.CatalogRepo.Create(s.GetContext(), newTestPlan("Turf Care Premium", "var-plan", "120.00")))
	s.NoError(stores.CatalogRepo.Create(s.GetContext(), newTestAddon("Grub Control", "var-addon-rec", "45.00", types.BillingCadenceRecurring)))
	s.NoError(stores.CatalogRepo.Create(s.GetContext(), newTestAddon("Aeration", "var-addon-once", "80.00", types.BillingCadenceOneTime)))
}

func (s *BillingServiceSuite) seedCustomerWithCard(status types.SubscriptionStatus) (*customerWithCard, error) {
	c := newTestCustomer(status)
	if err := s.GetStores().CustomerRepo.Create(s.GetContext(), c); err != nil {
		return nil, err
	}

	card := &billing.PaymentMethod{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_METHOD),
		CustomerID:    c.ID,
		GatewayCardID: "gw-card-seed",
		Last4:         "1111",
		Brand:         "VISA",
		ExpMonth:      12,
		ExpYear:       2030,
		IsDefault:     true,
		BaseModel:     types.BaseModel{Status: types.StatusPublished},
	}
	if err := s.GetStores().PaymentMethodRepo.Create(s.GetContext(), card); err != nil {
		return nil, err
	}
	return &customerWithCard{customerID: c.ID, card: card}, nil
}

type customerWithCard struct {
	customerID string
	card       *billing.PaymentMethod
}

func (s *BillingServiceSuite) TestActivateNewSubscription() {
	seed, err := s.seedCustomerWithCard(types.SubscriptionStatusNone)
	s.NoError(err)

	resp, err := s.service.ChangeSubscription(s.GetContext(), seed.customerID, dto.ChangeSubscriptionRequest{
		PlanVariationID:   "var-plan",
		AddonVariationIDs: []string{"var-addon-rec"},
	})
	s.NoError(err)

	s.Equal(types.SubscriptionStatusActive, resp.SubscriptionStatus)
	s.NotEmpty(resp.GatewaySubscriptionID)
	s.Nil(resp.OneTimeCharge)
	// 165.00 subtotal, 4% + $0.10 fee
	s.True(resp.RecurringTotal.Equal(decimal.RequireFromString("171.70")),
		"got %s", resp.RecurringTotal)

	s.Equal(1, s.GetGateway().Calls(testutil.OpCreateOrder))
	s.Equal(1, s.GetGateway().Calls(testutil.OpCreateSub))
	s.Equal(0, s.GetGateway().Calls(testutil.OpCharge))

	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), seed.customerID)
	s.NoError(err)
	s.Equal([]string{"var-addon-rec"}, []string(stored.SelectedAddons))
}

func (s *BillingServiceSuite) TestIllegalTransitionRejectedBeforeCharging() {
	seed, err := s.seedCustomerWithCard(types.SubscriptionStatusActive)
	s.NoError(err)

	_, err = s.service.ChangeSubscription(s.GetContext(), seed.customerID, dto.ChangeSubscriptionRequest{
		PlanVariationID:   "var-plan",
		AddonVariationIDs: []string{"var-addon-once"},
	})
	s.Error(err)
	s.True(ierr.IsInvalidTransition(err))

	// no money moves on a caller error
	s.Equal(0, s.GetGateway().Calls(testutil.OpCharge))
	s.Equal(0, s.GetGateway().Calls(testutil.OpCreateOrder))
	s.Equal(0, s.GetGateway().Calls(testutil.OpCreateSub))

	attempts, err := s.GetStores().AttemptRepo.ListByCustomer(s.GetContext(), seed.customerID)
	s.NoError(err)
	s.Empty(attempts)
}

func (s *BillingServiceSuite) TestOneTimeAddonChargedUpfront() {
	seed, err := s.seedCustomerWithCard(types.SubscriptionStatusNone)
	s.NoError(err)

	resp, err := s.service.ChangeSubscription(s.GetContext(), seed.customerID, dto.ChangeSubscriptionRequest{
		PlanVariationID:   "var-plan",
		AddonVariationIDs: []string{"var-addon-rec", "var-addon-once"},
	})
	s.NoError(err)

	s.NotNil(resp.OneTimeCharge)
	// 80.00 one-time subtotal, fee 3.30
	s.True(resp.OneTimeCharge.Total.Equal(decimal.RequireFromString("83.30")),
		"got %s", resp.OneTimeCharge.Total)
	s.Equal(1, s.GetGateway().Calls(testutil.OpCharge))
	s.Equal(int64(8330), s.GetGateway().ChargeRequests[0].AmountCents)
	s.Equal(seed.card.GatewayCardID, s.GetGateway().ChargeRequests[0].SourceID)

	// one-time add-ons are billing events, never part of the standing selection
	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), seed.customerID)
	s.NoError(err)
	s.Equal([]string{"var-addon-rec"}, []string(stored.SelectedAddons))

	attempts, err := s.GetStores().AttemptRepo.ListByCustomer(s.GetContext(), seed.customerID)
	s.NoError(err)
	s.Len(attempts, 1)
	s.Equal(types.BillingAttemptStatusPaid, attempts[0].AttemptStatus)
	s.NotEmpty(attempts[0].GatewayPaymentID)
	s.NotEmpty(attempts[0].IdempotencyKey)

	payments, err := s.GetStores().PaymentRepo.ListByCustomer(s.GetContext(), seed.customerID)
	s.NoError(err)
	s.Len(payments, 1)
	s.True(payments[0].Amount.Equal(attempts[0].Total))
}

func (s *BillingServiceSuite) TestOneTimeChargeFailureAbortsEverything() {
	seed, err := s.seedCustomerWithCard(types.SubscriptionStatusNone)
	s.NoError(err)
	s.GetGateway().FailWith(testutil.OpCharge, testutil.GatewayRejectedErr("card declined"))

	_, err = s.service.ChangeSubscription(s.GetContext(), seed.customerID, dto.ChangeSubscriptionRequest{
		PlanVariationID:   "var-plan",
		AddonVariationIDs: []string{"var-addon-once"},
	})
	s.Error(err)
	s.True(ierr.IsGatewayRejected(err))

	// the failed upfront charge must stop the whole operation cold
	s.Equal(0, s.GetGateway().Calls(testutil.OpCreateOrder))
	s.Equal(0, s.GetGateway().Calls(testutil.OpCreateSub))

	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), seed.customerID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusNone, stored.SubscriptionStatus)
	s.Empty(stored.GatewaySubscriptionID)
	s.Empty([]string(stored.SelectedAddons))

	attempts, err := s.GetStores().AttemptRepo.ListByCustomer(s.GetContext(), seed.customerID)
	s.NoError(err)
	s.Empty(attempts)
}

func (s *BillingServiceSuite) TestSubscriptionFailureAfterChargeKeepsAttempt() {
	seed, err := s.seedCustomerWithCard(types.SubscriptionStatusNone)
	s.NoError(err)
	s.GetGateway().FailWith(testutil.OpCreateSub, testutil.GatewayRejectedErr("subscription rejected"))

	_, err = s.service.ChangeSubscription(s.GetContext(), seed.customerID, dto.ChangeSubscriptionRequest{
		PlanVariationID:   "var-plan",
		AddonVariationIDs: []string{"var-addon-once"},
	})
	s.Error(err)
	s.True(ierr.IsGatewayRejected(err))

	// money was legitimately taken before the failure, so the attempt stays
	attempts, err := s.GetStores().AttemptRepo.ListByCustomer(s.GetContext(), seed.customerID)
	s.NoError(err)
	s.Len(attempts, 1)

	// but the subscription state is untouched
	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), seed.customerID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusNone, stored.SubscriptionStatus)
	s.Empty(stored.GatewaySubscriptionID)
}

func (s *BillingServiceSuite) TestNoDefaultPaymentMethod() {
	c := newTestCustomer(types.SubscriptionStatusNone)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	_, err := s.service.ChangeSubscription(s.GetContext(), c.ID, dto.ChangeSubscriptionRequest{
		PlanVariationID: "var-plan",
	})
	s.Error(err)
	s.True(ierr.IsNoPaymentMethod(err))
	s.Equal(0, s.GetGateway().Calls(testutil.OpCharge))
	s.Equal(0, s.GetGateway().Calls(testutil.OpCreateSub))
}

func (s *BillingServiceSuite) TestPlanChangeFromPausedSwapsRemote() {
	seed, err := s.seedCustomerWithCard(types.SubscriptionStatusPaused)
	s.NoError(err)

	resp, err := s.service.ChangeSubscription(s.GetContext(), seed.customerID, dto.ChangeSubscriptionRequest{
		PlanVariationID: "var-plan",
	})
	s.NoError(err)

	s.Equal(types.SubscriptionStatusActive, resp.SubscriptionStatus)
	s.Equal(1, s.GetGateway().Calls(testutil.OpSwapPlan))
	s.Equal(0, s.GetGateway().Calls(testutil.OpCreateSub))
	s.Equal("var-plan", s.GetGateway().SwapRequests[0].NewPlanVariationID)
}

func (s *BillingServiceSuite) TestFreshIdempotencyKeyPerAttempt() {
	seed, err := s.seedCustomerWithCard(types.SubscriptionStatusNone)
	s.NoError(err)
	s.GetGateway().FailWith(testutil.OpCreateSub, testutil.GatewayRejectedErr("rejected"))

	req := dto.ChangeSubscriptionRequest{
		PlanVariationID:   "var-plan",
		AddonVariationIDs: []string{"var-addon-once"},
	}
	_, err = s.service.ChangeSubscription(s.GetContext(), seed.customerID, req)
	s.Error(err)
	_, err = s.service.ChangeSubscription(s.GetContext(), seed.customerID, req)
	s.Error(err)

	s.Len(s.GetGateway().ChargeRequests, 2)
	s.NotEqual(s.GetGateway().ChargeRequests[0].IdempotencyKey,
		s.GetGateway().ChargeRequests[1].IdempotencyKey,
		"each logical attempt carries its own idempotency key")
}

func (s *BillingServiceSuite) TestDeferredStartDateOutOfSeason() {
	seed, err := s.seedCustomerWithCard(types.SubscriptionStatusNone)
	s.NoError(err)
	// Turf Care runs March through October
	s.NoError(s.GetStores().ScheduleRepo.Create(s.GetContext(), newTestSchedule("Turf Care", 3, 10)))

	resp, err := s.service.ChangeSubscription(s.GetContext(), seed.customerID, dto.ChangeSubscriptionRequest{
		PlanVariationID: "var-plan",
	})
	s.NoError(err)

	if time.Now().UTC().Month() >= time.March && time.Now().UTC().Month() <= time.October {
		s.Nil(resp.StartDate)
	} else {
		s.NotNil(resp.StartDate)
		s.Equal(time.March, resp.StartDate.Month())
		s.Equal(1, resp.StartDate.Day())
	}
}

func (s *BillingServiceSuite) TestPreviewOrderHasNoSideEffects() {
	preview, err := s.service.PreviewOrder(s.GetContext(), dto.ChangeSubscriptionRequest{
		PlanVariationID:   "var-plan",
		AddonVariationIDs: []string{"var-addon-rec"},
	})
	s.NoError(err)

	s.True(preview.Subtotal.Equal(decimal.RequireFromString("165.00")))
	s.True(preview.Fee.Equal(decimal.RequireFromString("6.70")))
	s.True(preview.Total.Equal(decimal.RequireFromString("171.70")))
	s.Equal(0, s.GetGateway().Calls(testutil.OpCreateOrder))
	s.Equal(0, s.GetGateway().Calls(testutil.OpCharge))
}

func (s *BillingServiceSuite) TestBillingHistory() {
	seed, err := s.seedCustomerWithCard(types.SubscriptionStatusNone)
	s.NoError(err)

	_, err = s.service.ChangeSubscription(s.GetContext(), seed.customerID, dto.ChangeSubscriptionRequest{
		PlanVariationID:   "var-plan",
		AddonVariationIDs: []string{"var-addon-once"},
	})
	s.NoError(err)

	history, err := s.service.GetBillingHistory(s.GetContext(), seed.customerID)
	s.NoError(err)
	s.Len(history.Attempts, 1)
	s.Len(history.Payments, 1)

	_, err = s.service.GetBillingHistory(s.GetContext(), "cust_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
