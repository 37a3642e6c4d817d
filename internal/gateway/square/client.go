package square

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/skeeterman/lawnbill/internal/config"
	"github.com/skeeterman/lawnbill/internal/domain/gateway"
	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/skeeterman/lawnbill/internal/httpclient"
	"github.com/skeeterman/lawnbill/internal/logger"
)

// Client implements gateway.Gateway against the Square REST API.
// All payload decoding happens here; nothing above this layer sees Square's
// wire format.
type Client struct {
	cfg    config.SquareConfig
	client httpclient.Client
	log    *logger.Logger
}

// NewClient creates a Square gateway client
func NewClient(cfg *config.Configuration, client httpclient.Client, log *logger.Logger) gateway.Gateway {
	return &Client{
		cfg:    cfg.Square,
		client: client,
		log:    log,
	}
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"Square-Version": c.cfg.Version,
		"Authorization":  "Bearer " + c.cfg.AccessToken,
		"Content-Type":   "application/json",
	}
}

// squareError is one entry of Square's structured error payload
type squareError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
}

type squareErrorBody struct {
	Errors []squareError `json:"errors"`
}

// wrapErr translates transport and HTTP errors into the gateway error
// contract. A structured rejection surfaces the gateway's detail verbatim; a
// transport failure stays marked as an indeterminate outcome.
func (c *Client) wrapErr(err error, op string) error {
	if httpErr, ok := httpclient.IsHTTPError(err); ok {
		detail := strings.TrimSpace(string(httpErr.Response))
		var body squareErrorBody
		if jsonErr := json.Unmarshal(httpErr.Response, &body); jsonErr == nil && len(body.Errors) > 0 {
			details := make([]string, 0, len(body.Errors))
			for _, e := range body.Errors {
				if e.Detail != "" {
					details = append(details, e.Detail)
				} else {
					details = append(details, e.Code)
				}
			}
			detail = strings.Join(details, ", ")
		}
		return ierr.WithError(err).
			WithHint(detail).
			WithReportableDetails(map[string]any{
				"operation":   op,
				"http_status": httpErr.StatusCode,
			}).
			Mark(ierr.ErrGatewayRejected)
	}
	if ierr.IsGatewayTimeout(err) {
		return err
	}
	return ierr.WithError(err).
		WithHintf("Square %s call failed", op).
		Mark(ierr.ErrGatewayTimeout)
}

func (c *Client) post(ctx context.Context, path string, payload any, op string) ([]byte, error) {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to encode gateway request").
				Mark(ierr.ErrSystem)
		}
	}

	resp, err := c.client.Send(ctx, &httpclient.Request{
		Method:  http.MethodPost,
		URL:     c.cfg.BaseURL() + path,
		Headers: c.headers(),
		Body:    body,
	})
	if err != nil {
		return nil, c.wrapErr(err, op)
	}
	return resp.Body, nil
}

func decode[T any](body []byte, op string) (*T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to decode Square %s response", op).
			Mark(ierr.ErrHTTPClient)
	}
	return &out, nil
}

// CreateCustomer registers the customer at the gateway
func (c *Client) CreateCustomer(ctx context.Context, req *gateway.CreateCustomerRequest) (*gateway.CreateCustomerResult, error) {
	payload := map[string]any{
		"given_name":    req.GivenName,
		"family_name":   req.FamilyName,
		"email_address": req.Email,
	}
	if req.PhoneNumber != "" {
		payload["phone_number"] = req.PhoneNumber
	}

	body, err := c.post(ctx, "/v2/customers", payload, "create customer")
	if err != nil {
		return nil, err
	}

	resp, err := decode[struct {
		Customer struct {
			ID string `json:"id"`
		} `json:"customer"`
	}](body, "create customer")
	if err != nil {
		return nil, err
	}
	if resp.Customer.ID == "" {
		return nil, ierr.NewError("no customer in response").
			WithHint("Square did not return a customer").
			Mark(ierr.ErrGatewayRejected)
	}

	return &gateway.CreateCustomerResult{CustomerID: resp.Customer.ID}, nil
}

// CreateCardOnFile saves a payment method for future charges
func (c *Client) CreateCardOnFile(ctx context.Context, req *gateway.CreateCardRequest) (*gateway.CreateCardResult, error) {
	payload := map[string]any{
		"idempotency_key": req.IdempotencyKey,
		"source_id":       req.SourceID,
		"card": map[string]any{
			"customer_id": req.GatewayCustomerID,
		},
	}

	body, err := c.post(ctx, "/v2/cards", payload, "create card")
	if err != nil {
		return nil, err
	}

	resp, err := decode[struct {
		Card struct {
			ID         string `json:"id"`
			CustomerID string `json:"customer_id"`
			Last4      string `json:"last_4"`
			CardBrand  string `json:"card_brand"`
			ExpMonth   int    `json:"exp_month"`
			ExpYear    int    `json:"exp_year"`
		} `json:"card"`
	}](body, "create card")
	if err != nil {
		return nil, err
	}
	if resp.Card.ID == "" {
		return nil, ierr.NewError("no card in response").
			WithHint("Square did not return a card").
			Mark(ierr.ErrGatewayRejected)
	}
	// The card must end up attached to the customer we asked for
	if resp.Card.CustomerID != req.GatewayCustomerID {
		return nil, ierr.NewError("card not associated with customer").
			WithHintf("Card %s was created but not attached to customer %s", resp.Card.ID, req.GatewayCustomerID).
			Mark(ierr.ErrGatewayRejected)
	}

	return &gateway.CreateCardResult{
		CardID:   resp.Card.ID,
		Last4:    resp.Card.Last4,
		Brand:    resp.Card.CardBrand,
		ExpMonth: resp.Card.ExpMonth,
		ExpYear:  resp.Card.ExpYear,
	}, nil
}

// CreateOrder creates an order (template) from line items
func (c *Client) CreateOrder(ctx context.Context, req *gateway.CreateOrderRequest) (*gateway.CreateOrderResult, error) {
	lines := make([]map[string]any, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		line := map[string]any{
			"quantity": fmt.Sprintf("%d", li.Quantity),
		}
		if li.CatalogObjectID != "" {
			line["catalog_object_id"] = li.CatalogObjectID
		} else {
			line["name"] = li.Name
		}
		if li.AmountCents > 0 {
			line["base_price_money"] = map[string]any{
				"amount":   li.AmountCents,
				"currency": "USD",
			}
		}
		lines = append(lines, line)
	}

	payload := map[string]any{
		"idempotency_key": req.IdempotencyKey,
		"order": map[string]any{
			"location_id": c.cfg.LocationID,
			"line_items":  lines,
		},
	}

	body, err := c.post(ctx, "/v2/orders", payload, "create order")
	if err != nil {
		return nil, err
	}

	resp, err := decode[struct {
		Order struct {
			ID string `json:"id"`
		} `json:"order"`
	}](body, "create order")
	if err != nil {
		return nil, err
	}
	if resp.Order.ID == "" {
		return nil, ierr.NewError("no order in response").
			WithHint("Square did not return an order").
			Mark(ierr.ErrGatewayRejected)
	}

	return &gateway.CreateOrderResult{OrderID: resp.Order.ID}, nil
}

type subscriptionPayload struct {
	Subscription struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"subscription"`
}

func (c *Client) decodeSubscription(body []byte, op string) (*gateway.SubscriptionResult, error) {
	resp, err := decode[subscriptionPayload](body, op)
	if err != nil {
		return nil, err
	}
	if resp.Subscription.ID == "" {
		return nil, ierr.NewError("no subscription in response").
			WithHintf("Square did not return a subscription for %s", op).
			Mark(ierr.ErrGatewayRejected)
	}
	return &gateway.SubscriptionResult{
		SubscriptionID: resp.Subscription.ID,
		Status:         resp.Subscription.Status,
	}, nil
}

// CreateSubscription starts a remote subscription
func (c *Client) CreateSubscription(ctx context.Context, req *gateway.CreateSubscriptionRequest) (*gateway.SubscriptionResult, error) {
	payload := map[string]any{
		"idempotency_key":   req.IdempotencyKey,
		"location_id":       c.cfg.LocationID,
		"plan_variation_id": req.PlanVariationID,
		"customer_id":       req.GatewayCustomerID,
		"card_id":           req.CardID,
	}
	if req.OrderTemplateID != "" {
		payload["order_template_id"] = req.OrderTemplateID
	}
	if req.StartDate != nil {
		payload["start_date"] = req.StartDate.Format("2006-01-02")
	}

	body, err := c.post(ctx, "/v2/subscriptions", payload, "create subscription")
	if err != nil {
		return nil, err
	}
	return c.decodeSubscription(body, "create subscription")
}

// SwapSubscriptionPlan changes the plan of an existing remote subscription
func (c *Client) SwapSubscriptionPlan(ctx context.Context, req *gateway.SwapPlanRequest) (*gateway.SubscriptionResult, error) {
	payload := map[string]any{
		"new_plan_variation_id": req.NewPlanVariationID,
	}
	if req.OrderTemplateID != "" {
		payload["order_template_id"] = req.OrderTemplateID
	}

	body, err := c.post(ctx, "/v2/subscriptions/"+req.SubscriptionID+"/swap-plan", payload, "swap plan")
	if err != nil {
		return nil, err
	}
	return c.decodeSubscription(body, "swap plan")
}

// PauseSubscription pauses the remote subscription
func (c *Client) PauseSubscription(ctx context.Context, subscriptionID string) (*gateway.SubscriptionResult, error) {
	body, err := c.post(ctx, "/v2/subscriptions/"+subscriptionID+"/pause", map[string]any{}, "pause subscription")
	if err != nil {
		return nil, err
	}
	return c.decodeSubscription(body, "pause subscription")
}

// ResumeSubscription resumes the remote subscription
func (c *Client) ResumeSubscription(ctx context.Context, subscriptionID string) (*gateway.SubscriptionResult, error) {
	body, err := c.post(ctx, "/v2/subscriptions/"+subscriptionID+"/resume", map[string]any{}, "resume subscription")
	if err != nil {
		return nil, err
	}
	return c.decodeSubscription(body, "resume subscription")
}

// CancelSubscription cancels the remote subscription
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) (*gateway.SubscriptionResult, error) {
	body, err := c.post(ctx, "/v2/subscriptions/"+subscriptionID+"/cancel", nil, "cancel subscription")
	if err != nil {
		return nil, err
	}
	return c.decodeSubscription(body, "cancel subscription")
}

// Charge takes an immediate payment from a saved source
func (c *Client) Charge(ctx context.Context, req *gateway.ChargeRequest) (*gateway.ChargeResult, error) {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	payload := map[string]any{
		"source_id":       req.SourceID,
		"idempotency_key": req.IdempotencyKey,
		"amount_money": map[string]any{
			"amount":   req.AmountCents,
			"currency": currency,
		},
		"location_id": c.cfg.LocationID,
	}

	body, err := c.post(ctx, "/v2/payments", payload, "charge")
	if err != nil {
		return nil, err
	}

	resp, err := decode[struct {
		Payment struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"payment"`
	}](body, "charge")
	if err != nil {
		return nil, err
	}
	if resp.Payment.ID == "" {
		return nil, ierr.NewError("no payment in response").
			WithHint("Square did not return a payment").
			Mark(ierr.ErrGatewayRejected)
	}

	return &gateway.ChargeResult{
		PaymentID: resp.Payment.ID,
		Status:    resp.Payment.Status,
	}, nil
}

// GetCatalogPrices returns live prices by variation id
func (c *Client) GetCatalogPrices(ctx context.Context, variationIDs []string) (map[string]int64, error) {
	payload := map[string]any{
		"object_ids": variationIDs,
	}

	body, err := c.post(ctx, "/v2/catalog/batch-retrieve", payload, "catalog prices")
	if err != nil {
		return nil, err
	}

	resp, err := decode[struct {
		Objects []struct {
			ID                string `json:"id"`
			ItemVariationData struct {
				PriceMoney struct {
					Amount int64 `json:"amount"`
				} `json:"price_money"`
			} `json:"item_variation_data"`
		} `json:"objects"`
	}](body, "catalog prices")
	if err != nil {
		return nil, err
	}

	prices := make(map[string]int64, len(resp.Objects))
	for _, obj := range resp.Objects {
		prices[obj.ID] = obj.ItemVariationData.PriceMoney.Amount
	}
	return prices, nil
}

// ListInvoices returns the gateway-hosted invoices for a customer
func (c *Client) ListInvoices(ctx context.Context, gatewayCustomerID string) ([]*gateway.InvoiceResult, error) {
	filter := map[string]any{
		"customer_ids": []string{gatewayCustomerID},
	}
	if c.cfg.LocationID != "" {
		filter["location_ids"] = []string{c.cfg.LocationID}
	}

	payload := map[string]any{
		"query": map[string]any{
			"filter": filter,
			"sort": map[string]any{
				"field": "INVOICE_SORT_DATE",
				"order": "DESC",
			},
		},
	}

	body, err := c.post(ctx, "/v2/invoices/search", payload, "list invoices")
	if err != nil {
		return nil, err
	}

	resp, err := decode[struct {
		Invoices []struct {
			ID              string `json:"id"`
			SubscriptionID  string `json:"subscription_id"`
			Status          string `json:"status"`
			PublicURL       string `json:"public_url"`
			ScheduledAt     string `json:"scheduled_at"`
			PaymentRequests []struct {
				ComputedAmountMoney struct {
					Amount int64 `json:"amount"`
				} `json:"computed_amount_money"`
			} `json:"payment_requests"`
			NextPaymentAmountMoney struct {
				Amount int64 `json:"amount"`
			} `json:"next_payment_amount_money"`
		} `json:"invoices"`
	}](body, "list invoices")
	if err != nil {
		return nil, err
	}

	out := make([]*gateway.InvoiceResult, 0, len(resp.Invoices))
	for _, inv := range resp.Invoices {
		amount := inv.NextPaymentAmountMoney.Amount
		if len(inv.PaymentRequests) > 0 && inv.PaymentRequests[0].ComputedAmountMoney.Amount > 0 {
			amount = inv.PaymentRequests[0].ComputedAmountMoney.Amount
		}

		var dueDate *time.Time
		if inv.ScheduledAt != "" {
			if t, err := time.Parse(time.RFC3339, inv.ScheduledAt); err == nil {
				dueDate = &t
			}
		}

		out = append(out, &gateway.InvoiceResult{
			InvoiceID:      inv.ID,
			SubscriptionID: inv.SubscriptionID,
			AmountCents:    amount,
			Status:         inv.Status,
			DueDate:        dueDate,
			PublicURL:      inv.PublicURL,
		})
	}
	return out, nil
}
