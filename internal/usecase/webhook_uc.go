// File: internal/usecase/webhook_uc.go
package usecase

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"creem-checkout-backend/internal/domain/model"
	"creem-checkout-backend/internal/domain/ports/adapter"
	"creem-checkout-backend/internal/domain/ports/repository"
	"creem-checkout-backend/internal/infra/metrics"
)

// Compile-time check
var _ WebhookUseCase = (*webhookUC)(nil)

// WebhookUseCase consumes webhook payloads whose signature the HTTP boundary
// has already checked. Its job ends at "authenticated event accepted": the
// error return exists only for the caller's log line, never for the response,
// because a non-2xx ack triggers platform-side redelivery storms.
type WebhookUseCase interface {
	Process(ctx context.Context, rawBody []byte) error
}

type webhookUC struct {
	entitlements adapter.EntitlementService
	dedup        repository.DeliveryDedup // nil disables dedup
	log          *zerolog.Logger
}

func NewWebhookUseCase(entitlements adapter.EntitlementService, dedup repository.DeliveryDedup, logger *zerolog.Logger) *webhookUC {
	return &webhookUC{entitlements: entitlements, dedup: dedup, log: logger}
}

func (u *webhookUC) Process(ctx context.Context, rawBody []byte) error {
	var ev model.WebhookEvent
	if err := json.Unmarshal(rawBody, &ev); err != nil {
		// Signed but unparseable: our bug or a platform format change, not an
		// attack. Log loudly, still acknowledge.
		metrics.WebhookRequests.WithLabelValues("bad_json").Inc()
		u.log.Error().Err(err).Msg("authenticated webhook body is not valid JSON")
		return nil
	}
	metrics.WebhookRequests.WithLabelValues("ok").Inc()

	if u.dedup != nil && ev.ID != "" {
		seen, err := u.dedup.MarkSeen(ctx, ev.ID)
		if err != nil {
			// Dedup is best effort; on error dispatch anyway, handlers are
			// repeat-safe.
			u.log.Warn().Err(err).Str("event_id", ev.ID).Msg("webhook dedup unavailable")
		} else if seen {
			metrics.WebhookEvents.WithLabelValues(ev.EventType, "duplicate").Inc()
			u.log.Debug().
				Str("event_id", ev.ID).
				Str("event_type", ev.EventType).
				Msg("duplicate webhook delivery acknowledged")
			return nil
		}
	}

	u.dispatch(ctx, &ev)
	return nil
}

// dispatch routes the event to exactly one EntitlementService method.
// Handler errors are logged and swallowed; unknown types are acknowledged for
// forward compatibility with event types the platform adds later.
func (u *webhookUC) dispatch(ctx context.Context, ev *model.WebhookEvent) {
	log := u.log.With().Str("event_id", ev.ID).Str("event_type", ev.EventType).Logger()

	var err error
	switch ev.EventType {
	case model.EventCheckoutCompleted:
		var obj model.CheckoutObject
		if err = json.Unmarshal(ev.Object, &obj); err == nil {
			err = u.entitlements.CheckoutCompleted(ctx, obj)
		}
	case model.EventSubscriptionActive:
		var obj model.SubscriptionObject
		if err = json.Unmarshal(ev.Object, &obj); err == nil {
			err = u.entitlements.SubscriptionActive(ctx, obj)
		}
	case model.EventSubscriptionPaid:
		var obj model.SubscriptionObject
		if err = json.Unmarshal(ev.Object, &obj); err == nil {
			err = u.entitlements.SubscriptionPaid(ctx, obj)
		}
	case model.EventSubscriptionCanceled:
		var obj model.SubscriptionObject
		if err = json.Unmarshal(ev.Object, &obj); err == nil {
			err = u.entitlements.SubscriptionCanceled(ctx, obj)
		}
	case model.EventSubscriptionPastDue:
		var obj model.SubscriptionObject
		if err = json.Unmarshal(ev.Object, &obj); err == nil {
			err = u.entitlements.SubscriptionPastDue(ctx, obj)
		}
	case model.EventRefundCreated:
		var obj model.RefundObject
		if err = json.Unmarshal(ev.Object, &obj); err == nil {
			err = u.entitlements.RefundCreated(ctx, obj)
		}
	default:
		metrics.WebhookEvents.WithLabelValues(ev.EventType, "unknown_type").Inc()
		log.Info().Msg("unhandled webhook event type")
		return
	}

	if err != nil {
		metrics.WebhookEvents.WithLabelValues(ev.EventType, "handler_error").Inc()
		log.Error().Err(err).Msg("webhook handler failed")
		return
	}
	metrics.WebhookEvents.WithLabelValues(ev.EventType, "dispatched").Inc()
	log.Debug().Msg("webhook event dispatched")
}
