package service

import (
	"testing"

	"github.com/skeeterman/lawnbill/internal/api/dto"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/testutil"
	"github.com/skeeterman/lawnbill/internal/types"
	"github.com/stretchr/testify/suite"
)

type CustomerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CustomerService
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCustomerService(newTestParams(&s.BaseServiceTestSuite))
}

func (s *CustomerServiceSuite) TestCreateCustomer() {
	resp, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		FirstName: "Pat",
		LastName:  "Greenlow",
		Email:     "pat@example.com",
	})
	s.NoError(err)

	s.NotEmpty(resp.ID)
	s.NotEmpty(resp.GatewayCustomerID)
	s.Equal(types.SubscriptionStatusNone, resp.SubscriptionStatus)
	s.Equal(1, s.GetGateway().Calls(testutil.OpCreateCustomer))
}

func (s *CustomerServiceSuite) TestCreateCustomerDuplicateEmail() {
	_, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		FirstName: "Pat",
		LastName:  "Greenlow",
		Email:     "pat@example.com",
	})
	s.NoError(err)

	_, err = s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "pat@example.com",
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
	s.Equal(1, s.GetGateway().Calls(testutil.OpCreateCustomer), "no gateway registration for the duplicate")
}

func (s *CustomerServiceSuite) TestCreateCustomerValidation() {
	_, err := s.service.CreateCustomer(s.GetContext(), dto.CreateCustomerRequest{
		FirstName: "Pat",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *CustomerServiceSuite) TestAddPaymentMethodBecomesDefault() {
	c := newTestCustomer(types.SubscriptionStatusNone)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	first, err := s.service.AddPaymentMethod(s.GetContext(), c.ID, dto.AddCardRequest{SourceID: "cnon:first"})
	s.NoError(err)
	s.True(first.IsDefault)

	second, err := s.service.AddPaymentMethod(s.GetContext(), c.ID, dto.AddCardRequest{SourceID: "cnon:second"})
	s.NoError(err)
	s.True(second.IsDefault)

	// only the newest card remains the default
	current, err := s.GetStores().PaymentMethodRepo.GetDefaultByCustomer(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(second.ID, current.ID)

	all, err := s.GetStores().PaymentMethodRepo.ListByCustomer(s.GetContext(), c.ID)
	s.NoError(err)
	s.Len(all, 2)
}

func (s *CustomerServiceSuite) TestAddPaymentMethodGatewayFailure() {
	c := newTestCustomer(types.SubscriptionStatusNone)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))
	s.GetGateway().FailWith(testutil.OpCreateCard, testutil.GatewayRejectedErr("invalid card token"))

	_, err := s.service.AddPaymentMethod(s.GetContext(), c.ID, dto.AddCardRequest{SourceID: "cnon:bad"})
	s.Error(err)
	s.True(ierr.IsGatewayRejected(err))

	_, err = s.GetStores().PaymentMethodRepo.GetDefaultByCustomer(s.GetContext(), c.ID)
	s.Error(err)
	s.True(ierr.IsNoPaymentMethod(err))
}

func (s *CustomerServiceSuite) TestDeleteCustomer() {
	c := newTestCustomer(types.SubscriptionStatusCancelled)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	s.NoError(s.service.DeleteCustomer(s.GetContext(), c.ID))

	_, err := s.GetStores().CustomerRepo.Get(s.GetContext(), c.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *CustomerServiceSuite) TestDeleteCustomerWithLiveSubscriptionRefused() {
	c := newTestCustomer(types.SubscriptionStatusActive)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	err := s.service.DeleteCustomer(s.GetContext(), c.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, stored.SubscriptionStatus)
}

func (s *CustomerServiceSuite) TestRemovePaymentMethodChecksOwnership() {
	owner := newTestCustomer(types.SubscriptionStatusNone)
	other := newTestCustomer(types.SubscriptionStatusNone)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), owner))
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), other))

	card, err := s.service.AddPaymentMethod(s.GetContext(), owner.ID, dto.AddCardRequest{SourceID: "cnon:ok"})
	s.NoError(err)

	err = s.service.RemovePaymentMethod(s.GetContext(), other.ID, card.ID)
	s.Error(err)
	s.True(ierr.IsNotFound(err))

	s.NoError(s.service.RemovePaymentMethod(s.GetContext(), owner.ID, card.ID))
	_, err = s.GetStores().PaymentMethodRepo.GetDefaultByCustomer(s.GetContext(), owner.ID)
	s.Error(err)
	s.True(ierr.IsNoPaymentMethod(err))
}

func (s *CustomerServiceSuite) TestSubscriptionEventsRequireCustomer() {
	_, err := s.service.GetSubscriptionEvents(s.GetContext(), "cust_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
