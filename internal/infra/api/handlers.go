package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"creem-checkout-backend/internal/domain"
	"creem-checkout-backend/internal/infra/logging"
	"creem-checkout-backend/internal/infra/metrics"
	"creem-checkout-backend/internal/infra/payment"
)

// signatureHeader is the platform's webhook signature header: a hex HMAC-SHA256
// of the raw request body.
const signatureHeader = "creem-signature"

// maxWebhookBody bounds what we buffer for signature verification.
const maxWebhookBody = 1 << 20

type checkoutCreateRequest struct {
	ProductID string `json:"productId"`
	PlanName  string `json:"planName"`
}

type checkoutCreateResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	CheckoutID  string `json:"checkoutId"`
}

type verifyCheckoutResponse struct {
	ID         string      `json:"id"`
	Status     string      `json:"status"`
	Amount     *int64      `json:"amount"`
	Currency   *string     `json:"currency"`
	CustomerID *string     `json:"customer_id"`
	Product    productInfo `json:"product"`
}

type productInfo struct {
	Name *string `json:"name"`
	ID   *string `json:"id"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// publicBaseURL decides where the platform's browser redirects land. An
// explicit configured base wins; otherwise it is derived from the proxy
// forwarding headers, then the direct Host header. A deployment where none of
// these is available must fail here rather than hand the platform a broken
// callback URL.
func (s *Server) publicBaseURL(r *http.Request) (string, error) {
	if s.cfg.Server.PublicBaseURL != "" {
		return s.cfg.Server.PublicBaseURL, nil
	}
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	if host == "" {
		return "", domain.ErrNoPublicBaseURL
	}
	proto := r.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		if r.TLS != nil {
			proto = "https"
		} else {
			proto = "http"
		}
	}
	return proto + "://" + host, nil
}

func (s *Server) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	var req checkoutCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.CheckoutCreateRequests.WithLabelValues("fail", "bad_json").Inc()
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	base, err := s.publicBaseURL(r)
	if err != nil {
		metrics.CheckoutCreateRequests.WithLabelValues("fail", "no_base_url").Inc()
		log.Error().Msg("cannot determine public base URL; set server.public_base_url or PUBLIC_BASE_URL")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Server is not configured with a public base URL"})
		return
	}

	sess, err := s.checkoutUC.CreateSession(ctx, req.ProductID, base)
	if err != nil {
		var ue *domain.UpstreamError
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			metrics.CheckoutCreateRequests.WithLabelValues("fail", "missing_product").Inc()
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "productId is required"})
		case errors.As(err, &ue):
			metrics.CheckoutCreateRequests.WithLabelValues("fail", "upstream").Inc()
			log.Error().Int("status", ue.Status).Str("detail", ue.Detail).Msg("checkout creation rejected upstream")
			writeJSON(w, ue.Status, errorResponse{Error: "Creem API error", Detail: ue.Detail})
		default:
			metrics.CheckoutCreateRequests.WithLabelValues("fail", "unknown").Inc()
			log.Error().Err(err).Msg("checkout creation failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		}
		return
	}

	metrics.CheckoutCreateRequests.WithLabelValues("ok", "").Inc()
	writeJSON(w, http.StatusOK, checkoutCreateResponse{
		CheckoutURL: sess.CheckoutURL,
		CheckoutID:  sess.ID,
	})
}

func (s *Server) handleVerifyCheckout(w http.ResponseWriter, r *http.Request) {
	checkoutID := chi.URLParam(r, "checkoutID")
	ctx := logging.WithCheckoutID(r.Context(), checkoutID)
	log := logging.With(ctx, s.log)
	start := time.Now()

	c, err := s.checkoutUC.Verify(ctx, checkoutID)
	if err != nil {
		var ue *domain.UpstreamError
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			metrics.CheckoutVerifyRequests.WithLabelValues("fail", "missing_id").Inc()
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "checkoutId is required"})
		case errors.As(err, &ue):
			metrics.CheckoutVerifyRequests.WithLabelValues("fail", "upstream").Inc()
			log.Error().Int("status", ue.Status).Str("detail", ue.Detail).Msg("checkout lookup failed")
			writeJSON(w, ue.Status, errorResponse{Error: "Checkout lookup failed", Detail: ue.Detail})
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
			metrics.CheckoutVerifyRequests.WithLabelValues("fail", "timeout").Inc()
			writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: "Verification timed out"})
		default:
			metrics.CheckoutVerifyRequests.WithLabelValues("fail", "unknown").Inc()
			log.Error().Err(err).Msg("verify failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		}
		metrics.CheckoutVerifyDuration.WithLabelValues("fail").Observe(time.Since(start).Seconds())
		return
	}

	metrics.CheckoutVerifyRequests.WithLabelValues("ok", "").Inc()
	metrics.CheckoutVerifyDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, verifyCheckoutResponse{
		ID:         c.ID,
		Status:     string(c.Status),
		Amount:     c.Amount,
		Currency:   c.Currency,
		CustomerID: c.CustomerID,
		Product:    productInfo{Name: c.ProductName, ID: c.ProductID},
	})
}

// The platform requires http(s) success/cancel URLs; these two handlers
// bridge its browser redirects back into the native app scheme.

func (s *Server) handlePaymentSuccess(w http.ResponseWriter, r *http.Request) {
	deepLink := s.cfg.Server.AppScheme + "://payment-success"
	if id := r.URL.Query().Get("checkout_id"); id != "" {
		deepLink += "?checkout_id=" + queryEscape(id)
	}
	http.Redirect(w, r, deepLink, http.StatusFound)
}

func (s *Server) handlePaymentCancelled(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.cfg.Server.AppScheme+"://", http.StatusFound)
}

// queryEscape percent-encodes a query value exactly once. url.QueryEscape
// writes spaces as '+', which some deep-link routers pass through literally,
// so normalize to %20.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	// The signature covers the exact bytes on the wire, so the body must be
	// consumed raw before any JSON parsing.
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Unreadable body"})
		return
	}

	if !payment.VerifyWebhookSignature(raw, s.cfg.Creem.WebhookSecret, r.Header.Get(signatureHeader)) {
		metrics.WebhookRequests.WithLabelValues("bad_signature").Inc()
		log.Warn().Msg("webhook signature mismatch; rejecting")
		// No detail beyond the status: nothing here may help forge signatures.
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid signature"})
		return
	}

	// Acknowledge once authenticated, whatever dispatch does: the platform's
	// retry policy penalizes slow and non-2xx responses.
	if err := s.webhookUC.Process(ctx, raw); err != nil {
		log.Error().Err(err).Msg("webhook processing error")
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
