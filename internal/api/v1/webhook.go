package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skeeterman/lawnbill/internal/api/dto"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/logger"
	"github.com/skeeterman/lawnbill/internal/service"
)

type WebhookHandler struct {
	service service.WebhookService
	log     *logger.Logger
}

func NewWebhookHandler(
	service service.WebhookService,
	log *logger.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log,
	}
}

// @Summary Receive a gateway webhook
// @Description Process a payment notification from the gateway. Unknown event types are acknowledged without action.
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param event body dto.WebhookEvent true "Event"
// @Success 200 {object} dto.WebhookResult
// @Failure 400 {object} ierr.ErrorResponse
// @Router /webhooks/square [post]
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	var event dto.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid webhook payload").
			Mark(ierr.ErrValidation))
		return
	}

	result, err := h.service.HandleEvent(c.Request.Context(), event)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
