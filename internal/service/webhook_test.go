package service

import (
	"testing"

	"github.com/skeeterman/lawnbill/internal/api/dto"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/testutil"
	"github.com/skeeterman/lawnbill/internal/types"
	"github.com/stretchr/testify/suite"
)

type WebhookServiceSuite struct {
	testutil.BaseServiceTestSuite
	service WebhookService
}

func TestWebhookService(t *testing.T) {
	suite.Run(t, new(WebhookServiceSuite))
}

func (s *WebhookServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewWebhookService(newTestParams(&s.BaseServiceTestSuite))
}

func paymentEvent(eventType, gatewayCustomerID string) dto.WebhookEvent {
	return dto.WebhookEvent{
		Type: eventType,
		Data: dto.WebhookEventData{
			Object: dto.WebhookEventObject{
				Invoice: dto.WebhookInvoice{
					ID:         "gw-inv-1",
					CustomerID: gatewayCustomerID,
				},
			},
		},
	}
}

func (s *WebhookServiceSuite) TestRepeatedFailuresSuspend() {
	c := newTestCustomer(types.SubscriptionStatusActive)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	event := paymentEvent(dto.WebhookInvoicePaymentFailed, c.GatewayCustomerID)
	for i := 0; i < 3; i++ {
		result, err := s.service.HandleEvent(s.GetContext(), event)
		s.NoError(err)
		s.True(result.Handled)
		s.Equal(c.ID, result.CustomerID)
	}

	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusSuspended, stored.SubscriptionStatus)
	s.Equal(3, stored.FailedPaymentAttempts)
}

func (s *WebhookServiceSuite) TestIntervenedSuccessResetsStreak() {
	c := newTestCustomer(types.SubscriptionStatusActive)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	failed := paymentEvent(dto.WebhookInvoicePaymentFailed, c.GatewayCustomerID)
	succeeded := paymentEvent(dto.WebhookInvoicePaymentSucceeded, c.GatewayCustomerID)

	for _, event := range []dto.WebhookEvent{failed, failed, succeeded, failed, failed} {
		_, err := s.service.HandleEvent(s.GetContext(), event)
		s.NoError(err)
	}

	// the success broke the streak, so two more failures are not enough
	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, stored.SubscriptionStatus)
	s.Equal(2, stored.FailedPaymentAttempts)
}

func (s *WebhookServiceSuite) TestSuccessReinstatesSuspended() {
	c := newTestCustomer(types.SubscriptionStatusSuspended)
	c.FailedPaymentAttempts = 3
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	result, err := s.service.HandleEvent(s.GetContext(), paymentEvent(dto.WebhookInvoicePaymentSucceeded, c.GatewayCustomerID))
	s.NoError(err)
	s.True(result.Handled)

	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(types.SubscriptionStatusActive, stored.SubscriptionStatus)
	s.Equal(0, stored.FailedPaymentAttempts)
}

func (s *WebhookServiceSuite) TestUnknownEventTypeAcknowledged() {
	c := newTestCustomer(types.SubscriptionStatusActive)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	result, err := s.service.HandleEvent(s.GetContext(), paymentEvent("subscription.updated", c.GatewayCustomerID))
	s.NoError(err, "unknown types are acknowledged so the gateway stops retrying")
	s.False(result.Handled)
	s.Empty(result.CustomerID)

	stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), c.ID)
	s.NoError(err)
	s.Equal(0, stored.FailedPaymentAttempts)
}

func (s *WebhookServiceSuite) TestUnknownCustomer() {
	_, err := s.service.HandleEvent(s.GetContext(), paymentEvent(dto.WebhookInvoicePaymentFailed, "gw-cust-missing"))
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *WebhookServiceSuite) TestGatewayUntouchedByWebhooks() {
	c := newTestCustomer(types.SubscriptionStatusActive)
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))

	_, err := s.service.HandleEvent(s.GetContext(), paymentEvent(dto.WebhookInvoicePaymentFailed, c.GatewayCustomerID))
	s.NoError(err)

	// payment notifications mutate local state only
	s.Equal(0, s.GetGateway().Calls(testutil.OpPauseSub))
	s.Equal(0, s.GetGateway().Calls(testutil.OpCancelSub))
}
