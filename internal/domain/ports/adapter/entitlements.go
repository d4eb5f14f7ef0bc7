package adapter

import (
	"context"

	"creem-checkout-backend/internal/domain/model"
)

// EntitlementService receives authenticated platform events, one method per
// event type. The platform redelivers on slow or non-2xx acknowledgments, so
// every method must be safe to call again with the same object.
type EntitlementService interface {
	CheckoutCompleted(ctx context.Context, c model.CheckoutObject) error
	SubscriptionActive(ctx context.Context, s model.SubscriptionObject) error
	SubscriptionPaid(ctx context.Context, s model.SubscriptionObject) error
	SubscriptionCanceled(ctx context.Context, s model.SubscriptionObject) error
	SubscriptionPastDue(ctx context.Context, s model.SubscriptionObject) error
	RefundCreated(ctx context.Context, r model.RefundObject) error
}
