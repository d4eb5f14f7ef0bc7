package entitlement

import (
	"context"

	"github.com/rs/zerolog"

	"creem-checkout-backend/internal/domain/model"
	"creem-checkout-backend/internal/domain/ports/adapter"
)

var _ adapter.EntitlementService = (*LogService)(nil)

// LogService only records what a real deployment would do: provision access,
// extend expiry, revoke on cancel/refund. Entitlement state in this demo
// lives on the client, reconstructed from a verified checkout, so every
// method here is a repeat-safe no-op beyond the log line.
type LogService struct {
	log *zerolog.Logger
}

func NewLogService(logger *zerolog.Logger) *LogService {
	return &LogService{log: logger}
}

func (s *LogService) CheckoutCompleted(ctx context.Context, c model.CheckoutObject) error {
	s.log.Info().
		Str("checkout_id", c.ID).
		Str("customer_id", c.CustomerID).
		Int64("amount", c.Amount).
		Str("currency", c.Currency).
		Msg("checkout completed; provision access")
	return nil
}

func (s *LogService) SubscriptionActive(ctx context.Context, sub model.SubscriptionObject) error {
	s.log.Info().
		Str("subscription_id", sub.ID).
		Str("product_id", sub.ProductID).
		Msg("subscription active; activate features")
	return nil
}

func (s *LogService) SubscriptionPaid(ctx context.Context, sub model.SubscriptionObject) error {
	s.log.Info().
		Str("subscription_id", sub.ID).
		Msg("subscription renewed; extend expiry")
	return nil
}

func (s *LogService) SubscriptionCanceled(ctx context.Context, sub model.SubscriptionObject) error {
	s.log.Info().
		Str("subscription_id", sub.ID).
		Msg("subscription canceled; revoke access at period end")
	return nil
}

func (s *LogService) SubscriptionPastDue(ctx context.Context, sub model.SubscriptionObject) error {
	s.log.Warn().
		Str("subscription_id", sub.ID).
		Msg("subscription past due; start dunning")
	return nil
}

func (s *LogService) RefundCreated(ctx context.Context, r model.RefundObject) error {
	s.log.Warn().
		Str("refund_id", r.ID).
		Str("checkout_id", r.CheckoutID).
		Int64("amount", r.Amount).
		Msg("refund issued; revoke access if full refund")
	return nil
}
