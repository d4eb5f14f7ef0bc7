package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"creem-checkout-backend/internal/config"
	"creem-checkout-backend/internal/domain"
	"creem-checkout-backend/internal/domain/model"
	"creem-checkout-backend/internal/domain/ports/adapter"
	"creem-checkout-backend/internal/infra/metrics"
)

const (
	testBaseURL       = "https://test-api.creem.io/v1"
	productionBaseURL = "https://api.creem.io/v1"
)

// Compile-time check
var _ adapter.PaymentPlatform = (*CreemGateway)(nil)

// CreemGateway implements PaymentPlatform against the Creem REST API.
// The API key travels only in the x-api-key header.
type CreemGateway struct {
	client *resty.Client
}

func NewCreemGateway(cfg *config.CreemConfig) *CreemGateway {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Environment == "production" {
			baseURL = productionBaseURL
		} else {
			baseURL = testBaseURL
		}
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &CreemGateway{client: client}
}

func (g *CreemGateway) Name() string { return "creem" }

// creemCheckout is the platform's checkout record. The product field is a
// bare product id string until the session resolves, then an object.
type creemCheckout struct {
	ID          string          `json:"id"`
	CheckoutURL string          `json:"checkout_url"`
	Status      string          `json:"status"`
	Amount      *int64          `json:"amount"`
	Currency    *string         `json:"currency"`
	CustomerID  *string         `json:"customer_id"`
	Product     json.RawMessage `json:"product"`
}

type createCheckoutRequest struct {
	ProductID  string `json:"product_id"`
	SuccessURL string `json:"success_url"`
}

// CreateCheckout opens a hosted checkout session. Never retried here:
// session creation is not idempotent and a retry risks duplicate sessions.
func (g *CreemGateway) CreateCheckout(ctx context.Context, p adapter.CreateCheckoutParams) (*model.CheckoutSession, error) {
	var out creemCheckout
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(createCheckoutRequest{ProductID: p.ProductID, SuccessURL: p.SuccessURL}).
		SetResult(&out).
		Post("/checkouts")
	metrics.CreemRequests.WithLabelValues("create_checkout", statusClass(resp, err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("creem: create checkout: %w", err)
	}
	if resp.IsError() {
		return nil, &domain.UpstreamError{Status: resp.StatusCode(), Detail: strings.TrimSpace(resp.String())}
	}
	return &model.CheckoutSession{
		ID:          out.ID,
		CheckoutURL: out.CheckoutURL,
		ProductID:   p.ProductID,
	}, nil
}

// GetCheckout fetches the current state of a session.
func (g *CreemGateway) GetCheckout(ctx context.Context, checkoutID string) (*model.Checkout, error) {
	var out creemCheckout
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("checkout_id", checkoutID).
		SetResult(&out).
		Get("/checkouts")
	metrics.CreemRequests.WithLabelValues("get_checkout", statusClass(resp, err)).Inc()
	if err != nil {
		return nil, fmt.Errorf("creem: get checkout %s: %w", checkoutID, err)
	}
	if resp.IsError() {
		return nil, &domain.UpstreamError{Status: resp.StatusCode(), Detail: strings.TrimSpace(resp.String())}
	}

	productID, productName := parseProduct(out.Product)
	return &model.Checkout{
		ID:          out.ID,
		Status:      model.NormalizeCheckoutStatus(out.Status),
		Amount:      out.Amount,
		Currency:    out.Currency,
		CustomerID:  out.CustomerID,
		ProductID:   productID,
		ProductName: productName,
	}, nil
}

// parseProduct handles both shapes of the product field.
func parseProduct(raw json.RawMessage) (id, name *string) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s, nil
	}
	var obj struct {
		ID   *string `json:"id"`
		Name *string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.ID, obj.Name
	}
	return nil, nil
}

func statusClass(resp *resty.Response, err error) string {
	if err != nil || resp == nil {
		return "err"
	}
	switch c := resp.StatusCode(); {
	case c < 300:
		return "2xx"
	case c < 400:
		return "3xx"
	case c < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
