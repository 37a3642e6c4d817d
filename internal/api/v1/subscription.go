package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skeeterman/lawnbill/internal/api/dto"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/logger"
	"github.com/skeeterman/lawnbill/internal/service"
	"github.com/skeeterman/lawnbill/internal/types"
)

type SubscriptionHandler struct {
	billing   service.BillingService
	lifecycle service.LifecycleService
	log       *logger.Logger
}

func NewSubscriptionHandler(
	billing service.BillingService,
	lifecycle service.LifecycleService,
	log *logger.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		billing:   billing,
		lifecycle: lifecycle,
		log:       log,
	}
}

// @Summary Change a subscription
// @Description Activate a subscription or change its plan and add-ons. One-time add-ons are charged upfront.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param change body dto.ChangeSubscriptionRequest true "Change"
// @Success 200 {object} dto.ChangeSubscriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 502 {object} ierr.ErrorResponse
// @Router /customers/{id}/subscription [put]
func (h *SubscriptionHandler) ChangeSubscription(c *gin.Context) {
	var req dto.ChangeSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.billing.ChangeSubscription(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Preview an order
// @Description Assemble line items, fee and total without any side effects
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param change body dto.ChangeSubscriptionRequest true "Change"
// @Success 200 {object} dto.PricingPreview
// @Failure 400 {object} ierr.ErrorResponse
// @Router /subscriptions/preview [post]
func (h *SubscriptionHandler) PreviewOrder(c *gin.Context) {
	var req dto.ChangeSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.billing.PreviewOrder(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Pause a subscription
// @Description Pause an active subscription
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /customers/{id}/subscription/pause [post]
func (h *SubscriptionHandler) PauseSubscription(c *gin.Context) {
	result, err := h.lifecycle.Pause(c.Request.Context(), c.Param("id"), types.PauseOriginManual)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCustomerResponse(result))
}

// @Summary Resume a subscription
// @Description Resume a paused subscription
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /customers/{id}/subscription/resume [post]
func (h *SubscriptionHandler) ResumeSubscription(c *gin.Context) {
	result, err := h.lifecycle.Resume(c.Request.Context(), c.Param("id"), types.PauseOriginManual)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCustomerResponse(result))
}

// @Summary Cancel a subscription
// @Description Cancel an active or paused subscription
// @Tags Subscriptions
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /customers/{id}/subscription [delete]
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	result, err := h.lifecycle.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCustomerResponse(result))
}
