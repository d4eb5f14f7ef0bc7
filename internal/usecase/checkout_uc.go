// File: internal/usecase/checkout_uc.go
package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"creem-checkout-backend/internal/config"
	"creem-checkout-backend/internal/domain"
	"creem-checkout-backend/internal/domain/model"
	"creem-checkout-backend/internal/domain/ports/adapter"
	"creem-checkout-backend/internal/infra/metrics"
)

// successPathTemplate carries the platform's {CHECKOUT_ID} placeholder. The
// platform substitutes it at redirect time; it is never resolved locally.
const successPathTemplate = "/payment-success?checkout_id={CHECKOUT_ID}"

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

type CheckoutUseCase interface {
	// CreateSession opens a hosted checkout session for productID.
	// callbackBase is the externally reachable http(s) base the platform
	// redirects to afterwards.
	CreateSession(ctx context.Context, productID, callbackBase string) (*model.CheckoutSession, error)
	// Verify polls the platform for the checkout's state until it is terminal
	// or attempts run out. The returned checkout is always platform truth
	// (except under the dev-only unverified fallback); the caller grants
	// entitlement only when Status.Paid() holds.
	Verify(ctx context.Context, checkoutID string) (*model.Checkout, error)
}

type checkoutUC struct {
	platform        adapter.PaymentPlatform
	maxAttempts     int
	baseDelay       time.Duration
	allowUnverified bool
	sleep           func(ctx context.Context, d time.Duration) error
	log             *zerolog.Logger
}

func NewCheckoutUseCase(platform adapter.PaymentPlatform, verify config.VerifyConfig, logger *zerolog.Logger) *checkoutUC {
	return &checkoutUC{
		platform:        platform,
		maxAttempts:     verify.MaxAttempts,
		baseDelay:       verify.BaseDelay,
		allowUnverified: verify.AllowUnverified,
		sleep:           sleepCtx,
		log:             logger,
	}
}

func (u *checkoutUC) CreateSession(ctx context.Context, productID, callbackBase string) (*model.CheckoutSession, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if callbackBase == "" {
		return nil, domain.ErrNoPublicBaseURL
	}

	sess, err := u.platform.CreateCheckout(ctx, adapter.CreateCheckoutParams{
		ProductID:  productID,
		SuccessURL: strings.TrimRight(callbackBase, "/") + successPathTemplate,
	})
	if err != nil {
		return nil, err
	}
	u.log.Info().
		Str("checkout_id", sess.ID).
		Str("product_id", productID).
		Msg("checkout session created")
	return sess, nil
}

// retryableStatus classifies upstream failures worth another attempt: the
// session may not be queryable yet (404/409/425), we are being throttled
// (429), or the platform is having a moment (5xx). Everything else is final.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusNotFound, http.StatusConflict, http.StatusTooEarly, http.StatusTooManyRequests:
		return true
	}
	return status >= 500
}

func (u *checkoutUC) Verify(ctx context.Context, checkoutID string) (*model.Checkout, error) {
	if strings.TrimSpace(checkoutID) == "" {
		return nil, domain.ErrInvalidArgument
	}

	for attempt := 1; ; attempt++ {
		c, err := u.platform.GetCheckout(ctx, checkoutID)
		if err != nil {
			var ue *domain.UpstreamError
			if errors.As(err, &ue) && retryableStatus(ue.Status) && attempt < u.maxAttempts {
				u.log.Debug().
					Str("checkout_id", checkoutID).
					Int("attempt", attempt).
					Int("upstream_status", ue.Status).
					Msg("verify retrying after upstream failure")
				if serr := u.backoff(ctx, attempt); serr != nil {
					return nil, serr
				}
				continue
			}
			if u.allowUnverified {
				return u.unverifiedFallback(checkoutID, attempt, "lookup_failed"), nil
			}
			metrics.CheckoutVerifyAttempts.WithLabelValues("error").Observe(float64(attempt))
			return nil, err
		}

		switch {
		case c.Status.Paid():
			metrics.CheckoutVerifyAttempts.WithLabelValues(string(c.Status)).Observe(float64(attempt))
			u.log.Info().
				Str("checkout_id", checkoutID).
				Int("attempt", attempt).
				Msg("checkout verified paid")
			return c, nil
		case c.Status.InFlight() && attempt < u.maxAttempts:
			if serr := u.backoff(ctx, attempt); serr != nil {
				return nil, serr
			}
		default:
			// Terminal without payment, or still pending with retries spent.
			metrics.CheckoutVerifyAttempts.WithLabelValues(string(c.Status)).Observe(float64(attempt))
			if u.allowUnverified {
				return u.unverifiedFallback(checkoutID, attempt, string(c.Status)), nil
			}
			u.log.Info().
				Str("checkout_id", checkoutID).
				Str("status", string(c.Status)).
				Int("attempt", attempt).
				Msg("checkout not completed")
			return c, nil
		}
	}
}

// backoff sleeps attempt*baseDelay: linear, matching the platform's guidance
// for checkout propagation delays.
func (u *checkoutUC) backoff(ctx context.Context, attempt int) error {
	return u.sleep(ctx, time.Duration(attempt)*u.baseDelay)
}

// unverifiedFallback fabricates a completed checkout. Reachable only when
// verify.allow_unverified is set, which config forces off outside dev mode.
func (u *checkoutUC) unverifiedFallback(checkoutID string, attempt int, lastStatus string) *model.Checkout {
	u.log.Warn().
		Str("checkout_id", checkoutID).
		Str("last_status", lastStatus).
		Int("attempt", attempt).
		Msg("treating unresolved checkout as paid (dev-only fallback)")
	return &model.Checkout{ID: checkoutID, Status: model.CheckoutStatusCompleted}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
