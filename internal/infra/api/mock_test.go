package api_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"creem-checkout-backend/internal/domain/model"
	"creem-checkout-backend/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// scriptedPlatform replays canned results and records calls.
type scriptedPlatform struct {
	mu sync.Mutex

	createErr   error
	createCalls int
	lastCreate  adapter.CreateCheckoutParams

	statuses []model.CheckoutStatus
	getErr   error
	getCalls int
}

func (p *scriptedPlatform) Name() string { return "scripted" }

func (p *scriptedPlatform) CreateCheckout(ctx context.Context, params adapter.CreateCheckoutParams) (*model.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createCalls++
	p.lastCreate = params
	if p.createErr != nil {
		return nil, p.createErr
	}
	return &model.CheckoutSession{
		ID:          "ch_test",
		CheckoutURL: "https://checkout.creem.io/ch_test",
		ProductID:   params.ProductID,
	}, nil
}

func (p *scriptedPlatform) GetCheckout(ctx context.Context, checkoutID string) (*model.Checkout, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.getErr != nil {
		p.getCalls++
		return nil, p.getErr
	}
	if p.getCalls >= len(p.statuses) {
		return nil, errors.New("scripted platform: no more statuses")
	}
	status := p.statuses[p.getCalls]
	p.getCalls++

	amount := int64(1900)
	currency := "USD"
	customer := "cus_1"
	name := "Pro Plan"
	return &model.Checkout{
		ID:          checkoutID,
		Status:      status,
		Amount:      &amount,
		Currency:    &currency,
		CustomerID:  &customer,
		ProductName: &name,
	}, nil
}

// countingEntitlements counts handler invocations per event type.
type countingEntitlements struct {
	mu    sync.Mutex
	calls map[string]int
}

func newCountingEntitlements() *countingEntitlements {
	return &countingEntitlements{calls: map[string]int{}}
}

func (c *countingEntitlements) record(kind string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[kind]++
	return nil
}

func (c *countingEntitlements) count(kind string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[kind]
}

func (c *countingEntitlements) CheckoutCompleted(ctx context.Context, o model.CheckoutObject) error {
	return c.record(model.EventCheckoutCompleted)
}
func (c *countingEntitlements) SubscriptionActive(ctx context.Context, o model.SubscriptionObject) error {
	return c.record(model.EventSubscriptionActive)
}
func (c *countingEntitlements) SubscriptionPaid(ctx context.Context, o model.SubscriptionObject) error {
	return c.record(model.EventSubscriptionPaid)
}
func (c *countingEntitlements) SubscriptionCanceled(ctx context.Context, o model.SubscriptionObject) error {
	return c.record(model.EventSubscriptionCanceled)
}
func (c *countingEntitlements) SubscriptionPastDue(ctx context.Context, o model.SubscriptionObject) error {
	return c.record(model.EventSubscriptionPastDue)
}
func (c *countingEntitlements) RefundCreated(ctx context.Context, o model.RefundObject) error {
	return c.record(model.EventRefundCreated)
}
