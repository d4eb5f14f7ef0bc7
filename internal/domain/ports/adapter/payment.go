package adapter

import (
	"context"

	"creem-checkout-backend/internal/domain/model"
)

// CreateCheckoutParams is what the platform needs to open a hosted session.
// SuccessURL may contain the literal {CHECKOUT_ID} placeholder; the platform
// substitutes it server-side at redirect time and we never resolve it locally.
type CreateCheckoutParams struct {
	ProductID  string
	SuccessURL string
}

// PaymentPlatform is the hex port for the hosted-checkout provider.
// Implementations attach credentials themselves; callers never see the key.
type PaymentPlatform interface {
	Name() string

	// CreateCheckout opens a new checkout session. Not idempotent on the
	// platform side, so callers must not retry it.
	CreateCheckout(ctx context.Context, p CreateCheckoutParams) (*model.CheckoutSession, error)
	// GetCheckout fetches the current state of a session. A plain read; safe
	// to call repeatedly and concurrently.
	GetCheckout(ctx context.Context, checkoutID string) (*model.Checkout, error)
}
