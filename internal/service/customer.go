package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/skeeterman/lawnbill/internal/api/dto"
	"github.com/skeeterman/lawnbill/internal/domain/billing"
	"github.com/skeeterman/lawnbill/internal/domain/customer"
	"github.com/skeeterman/lawnbill/internal/domain/gateway"
	"github.com/skeeterman/lawnbill/internal/domain/subscription"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/idempotency"
	"github.com/skeeterman/lawnbill/internal/types"
)

// CustomerService handles onboarding: local customer rows, their gateway
// registration, and cards on file.
type CustomerService interface {
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error)
	ListCustomers(ctx context.Context) (*dto.ListCustomersResponse, error)

	// DeleteCustomer soft-deletes a customer record. Customers with a live
	// subscription must cancel before they can be deleted.
	DeleteCustomer(ctx context.Context, id string) error

	// AddPaymentMethod saves a tokenized card at the gateway and records it
	// locally as the customer's default
	AddPaymentMethod(ctx context.Context, customerID string, req dto.AddCardRequest) (*dto.PaymentMethodResponse, error)

	// RemovePaymentMethod deletes a saved card belonging to the customer
	RemovePaymentMethod(ctx context.Context, customerID string, cardID string) error

	// GetSubscriptionEvents returns the customer's audit history
	GetSubscriptionEvents(ctx context.Context, customerID string) (*dto.ListSubscriptionEventsResponse, error)
}

type customerService struct {
	ServiceParams
}

func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{ServiceParams: params}
}

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.CustomerRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, ierr.NewError("customer already exists").
			WithHintf("A customer with email %s already exists", req.Email).
			Mark(ierr.ErrAlreadyExists)
	} else if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}

	res, err := s.Gateway.CreateCustomer(ctx, &gateway.CreateCustomerRequest{
		GivenName:   req.FirstName,
		FamilyName:  req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return nil, err
	}

	c := &customer.Customer{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CUSTOMER),
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		PhoneNumber:        req.PhoneNumber,
		AddressLine1:       req.AddressLine1,
		AddressCity:        req.AddressCity,
		AddressState:       req.AddressState,
		AddressPostalCode:  req.AddressPostalCode,
		GatewayCustomerID:  res.CustomerID,
		SubscriptionStatus: types.SubscriptionStatusNone,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.CustomerRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Logger.Infow("created customer",
		"customer_id", c.ID,
		"gateway_customer_id", c.GatewayCustomerID,
	)

	return dto.NewCustomerResponse(c), nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewCustomerResponse(c), nil
}

func (s *customerService) ListCustomers(ctx context.Context) (*dto.ListCustomersResponse, error) {
	customers, err := s.CustomerRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ListCustomersResponse{
		Items: lo.Map(customers, func(c *customer.Customer, _ int) *dto.CustomerResponse {
			return dto.NewCustomerResponse(c)
		}),
		Total: len(customers),
	}, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, id string) error {
	c, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if c.SubscriptionStatus == types.SubscriptionStatusActive ||
		c.SubscriptionStatus == types.SubscriptionStatusPaused ||
		c.SubscriptionStatus == types.SubscriptionStatusSuspended {
		return ierr.NewError("customer has a live subscription").
			WithHint("Cancel the subscription before deleting the customer").
			WithReportableDetails(map[string]any{
				"customer_id":         c.ID,
				"subscription_status": c.SubscriptionStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := s.CustomerRepo.Delete(ctx, c.ID); err != nil {
		return err
	}

	s.Logger.Infow("deleted customer", "customer_id", c.ID)
	return nil
}

func (s *customerService) AddPaymentMethod(ctx context.Context, customerID string, req dto.AddCardRequest) (*dto.PaymentMethodResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.CustomerRepo.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	cardKey := s.IdempGen.GenerateKey(idempotency.ScopeCharge, map[string]interface{}{
		"customer_id": c.ID,
		"source":      req.SourceID,
		"attempt":     uuid.NewString(),
	})
	res, err := s.Gateway.CreateCardOnFile(ctx, &gateway.CreateCardRequest{
		SourceID:          req.SourceID,
		GatewayCustomerID: c.GatewayCustomerID,
		IdempotencyKey:    cardKey,
	})
	if err != nil {
		return nil, err
	}

	// The newest card becomes the default used for subscriptions and
	// one-time charges
	if err := s.PaymentMethodRepo.ClearDefault(ctx, c.ID); err != nil {
		return nil, err
	}

	method := &billing.PaymentMethod{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_METHOD),
		CustomerID:    c.ID,
		GatewayCardID: res.CardID,
		Last4:         res.Last4,
		Brand:         res.Brand,
		ExpMonth:      res.ExpMonth,
		ExpYear:       res.ExpYear,
		IsDefault:     true,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	if err := s.PaymentMethodRepo.Create(ctx, method); err != nil {
		return nil, err
	}

	s.Logger.Infow("saved card on file",
		"customer_id", c.ID,
		"payment_method_id", method.ID,
		"last4", method.Last4,
	)

	return dto.NewPaymentMethodResponse(method), nil
}

func (s *customerService) RemovePaymentMethod(ctx context.Context, customerID string, cardID string) error {
	method, err := s.PaymentMethodRepo.Get(ctx, cardID)
	if err != nil {
		return err
	}
	if method.CustomerID != customerID {
		return ierr.NewError("payment method not found").
			WithHintf("Payment method %s was not found", cardID).
			Mark(ierr.ErrNotFound)
	}

	if err := s.PaymentMethodRepo.Delete(ctx, method.ID); err != nil {
		return err
	}

	if method.IsDefault {
		s.Logger.Warnw("removed default payment method",
			"customer_id", customerID,
			"payment_method_id", method.ID,
		)
	}
	return nil
}

func (s *customerService) GetSubscriptionEvents(ctx context.Context, customerID string) (*dto.ListSubscriptionEventsResponse, error) {
	if _, err := s.CustomerRepo.Get(ctx, customerID); err != nil {
		return nil, err
	}

	events, err := s.EventRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &dto.ListSubscriptionEventsResponse{
		Items: lo.Map(events, func(e *subscription.Event, _ int) *dto.SubscriptionEventResponse {
			return &dto.SubscriptionEventResponse{Event: e}
		}),
		Total: len(events),
	}, nil
}
