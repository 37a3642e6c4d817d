package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skeeterman/lawnbill/internal/api/dto"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/logger"
	"github.com/skeeterman/lawnbill/internal/service"
)

type CustomerHandler struct {
	service service.CustomerService
	billing service.BillingService
	log     *logger.Logger
}

func NewCustomerHandler(
	service service.CustomerService,
	billing service.BillingService,
	log *logger.Logger,
) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		billing: billing,
		log:     log,
	}
}

// @Summary Create a customer
// @Description Create a customer locally and at the payment gateway
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer body dto.CreateCustomerRequest true "Customer"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a customer
// @Description Get a customer
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	resp, err := h.service.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List customers
// @Description List customers
// @Tags Customers
// @Produce json
// @Success 200 {object} dto.ListCustomersResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /customers [get]
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	resp, err := h.service.ListCustomers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a customer
// @Description Soft-delete a customer without a live subscription
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 204
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /customers/{id} [delete]
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	if err := h.service.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Save a card on file
// @Description Save a tokenized card at the gateway as the customer's default payment method
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param card body dto.AddCardRequest true "Card"
// @Success 201 {object} dto.PaymentMethodResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /customers/{id}/cards [post]
func (h *CustomerHandler) AddCard(c *gin.Context) {
	var req dto.AddCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AddPaymentMethod(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Remove a card
// @Description Delete a saved card belonging to the customer
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Param card_id path string true "Payment method ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /customers/{id}/cards/{card_id} [delete]
func (h *CustomerHandler) RemoveCard(c *gin.Context) {
	err := h.service.RemovePaymentMethod(c.Request.Context(), c.Param("id"), c.Param("card_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get subscription events
// @Description Get a customer's subscription audit history
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.ListSubscriptionEventsResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /customers/{id}/events [get]
func (h *CustomerHandler) GetSubscriptionEvents(c *gin.Context) {
	resp, err := h.service.GetSubscriptionEvents(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get billing history
// @Description Get a customer's billing attempts and payments
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.BillingHistoryResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /customers/{id}/billing [get]
func (h *CustomerHandler) GetBillingHistory(c *gin.Context) {
	resp, err := h.billing.GetBillingHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
