package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"creem-checkout-backend/internal/domain/model"
	"creem-checkout-backend/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

// scriptedPlatform replays a fixed sequence of GetCheckout results and
// records every call, so tests can assert exact call and backoff counts.
type scriptedPlatform struct {
	mu sync.Mutex

	createSession *model.CheckoutSession
	createErr     error
	createCalls   int
	lastCreate    adapter.CreateCheckoutParams

	steps    []scriptStep
	getCalls int
}

type scriptStep struct {
	checkout *model.Checkout
	err      error
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
	if p.createSession != nil {
		return p.createSession, nil
	}
	return &model.CheckoutSession{ID: "ch_test", CheckoutURL: "https://checkout.test/ch_test", ProductID: params.ProductID}, nil
}

func (p *scriptedPlatform) GetCheckout(ctx context.Context, checkoutID string) (*model.Checkout, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.getCalls >= len(p.steps) {
		return nil, errors.New("scripted platform: no more steps")
	}
	step := p.steps[p.getCalls]
	p.getCalls++
	return step.checkout, step.err
}

func checkoutWithStatus(status model.CheckoutStatus) *model.Checkout {
	amount := int64(1900)
	currency := "USD"
	customer := "cus_1"
	name := "Pro Plan"
	return &model.Checkout{
		ID:          "ch_test",
		Status:      status,
		Amount:      &amount,
		Currency:    &currency,
		CustomerID:  &customer,
		ProductName: &name,
	}
}

// fakeSleeper records requested backoff durations instead of sleeping.
type fakeSleeper struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

func (s *fakeSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleeps = append(s.sleeps, d)
	return nil
}

// recordingEntitlements counts invocations per handler.
type recordingEntitlements struct {
	mu     sync.Mutex
	calls  map[string]int
	retErr error
}

func newRecordingEntitlements() *recordingEntitlements {
	return &recordingEntitlements{calls: map[string]int{}}
}

func (r *recordingEntitlements) record(kind string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[kind]++
	return r.retErr
}

func (r *recordingEntitlements) count(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[kind]
}

func (r *recordingEntitlements) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		n += c
	}
	return n
}

func (r *recordingEntitlements) CheckoutCompleted(ctx context.Context, c model.CheckoutObject) error {
	return r.record(model.EventCheckoutCompleted)
}
func (r *recordingEntitlements) SubscriptionActive(ctx context.Context, s model.SubscriptionObject) error {
	return r.record(model.EventSubscriptionActive)
}
func (r *recordingEntitlements) SubscriptionPaid(ctx context.Context, s model.SubscriptionObject) error {
	return r.record(model.EventSubscriptionPaid)
}
func (r *recordingEntitlements) SubscriptionCanceled(ctx context.Context, s model.SubscriptionObject) error {
	return r.record(model.EventSubscriptionCanceled)
}
func (r *recordingEntitlements) SubscriptionPastDue(ctx context.Context, s model.SubscriptionObject) error {
	return r.record(model.EventSubscriptionPastDue)
}
func (r *recordingEntitlements) RefundCreated(ctx context.Context, rf model.RefundObject) error {
	return r.record(model.EventRefundCreated)
}

// memDedup is an in-memory DeliveryDedup.
type memDedup struct {
	mu     sync.Mutex
	seen   map[string]bool
	retErr error
}

func newMemDedup() *memDedup { return &memDedup{seen: map[string]bool{}} }

func (d *memDedup) MarkSeen(ctx context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.retErr != nil {
		return false, d.retErr
	}
	if d.seen[id] {
		return true, nil
	}
	d.seen[id] = true
	return false, nil
}
