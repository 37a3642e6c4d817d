package service

import (
	"context"

	"github.com/skeeterman/lawnbill/internal/api/dto"
)

// WebhookService maps inbound gateway payment notifications onto lifecycle
// transitions
type WebhookService interface {
	// HandleEvent processes one webhook event. Unknown event types are
	// acknowledged without action so the gateway does not retry them.
	HandleEvent(ctx context.Context, event dto.WebhookEvent) (*dto.WebhookResult, error)
}

type webhookService struct {
	ServiceParams

	lifecycle LifecycleService
}

func NewWebhookService(params ServiceParams) WebhookService {
	return &webhookService{
		ServiceParams: params,
		lifecycle:     NewLifecycleService(params),
	}
}

func (s *webhookService) HandleEvent(ctx context.Context, event dto.WebhookEvent) (*dto.WebhookResult, error) {
	result := &dto.WebhookResult{EventType: event.Type}

	switch event.Type {
	case dto.WebhookInvoicePaymentFailed, dto.WebhookInvoicePaymentSucceeded:
	default:
		s.Logger.Debugw("ignoring webhook event type", "type", event.Type)
		return result, nil
	}

	gatewayCustomerID := event.Data.Object.Invoice.CustomerID
	c, err := s.CustomerRepo.GetByGatewayCustomerID(ctx, gatewayCustomerID)
	if err != nil {
		return nil, err
	}
	result.CustomerID = c.ID

	switch event.Type {
	case dto.WebhookInvoicePaymentFailed:
		_, err = s.lifecycle.RecordPaymentFailure(ctx, c.ID)
	case dto.WebhookInvoicePaymentSucceeded:
		_, err = s.lifecycle.RecordPaymentSuccess(ctx, c.ID)
	}
	if err != nil {
		return nil, err
	}

	result.Handled = true

	s.Logger.Infow("processed payment webhook",
		"type", event.Type,
		"customer_id", c.ID,
	)

	return result, nil
}
