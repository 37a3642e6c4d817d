package dto

import (
	"github.com/skeeterman/lawnbill/internal/domain/billing"
	"github.com/skeeterman/lawnbill/internal/domain/customer"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/validator"
)

// CreateCustomerRequest registers a new customer locally and at the gateway
type CreateCustomerRequest struct {
	FirstName         string `json:"first_name" validate:"required"`
	LastName          string `json:"last_name" validate:"required"`
	Email             string `json:"email" validate:"required,email"`
	PhoneNumber       string `json:"phone_number"`
	AddressLine1      string `json:"address_line1"`
	AddressCity       string `json:"address_city"`
	AddressState      string `json:"address_state"`
	AddressPostalCode string `json:"address_postal_code"`
}

func (r *CreateCustomerRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return nil
}

// CustomerResponse is the API shape of a customer
type CustomerResponse struct {
	*customer.Customer
}

// NewCustomerResponse creates a new customer response
func NewCustomerResponse(c *customer.Customer) *CustomerResponse {
	return &CustomerResponse{Customer: c}
}

// ListCustomersResponse is a list of customers
type ListCustomersResponse struct {
	Items []*CustomerResponse `json:"items"`
	Total int                 `json:"total"`
}

// AddCardRequest saves a tokenized card on file as the default payment method
type AddCardRequest struct {
	// SourceID is the tokenized card nonce from the gateway's client SDK
	SourceID string `json:"source_id" validate:"required"`
}

func (r *AddCardRequest) Validate() error {
	if r.SourceID == "" {
		return ierr.NewError("source_id is required").
			WithHint("A tokenized card source is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaymentMethodResponse is the API shape of a saved card
type PaymentMethodResponse struct {
	*billing.PaymentMethod
}

// NewPaymentMethodResponse creates a new payment method response
func NewPaymentMethodResponse(m *billing.PaymentMethod) *PaymentMethodResponse {
	return &PaymentMethodResponse{PaymentMethod: m}
}
