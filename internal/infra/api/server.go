package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"creem-checkout-backend/internal/config"
	"creem-checkout-backend/internal/usecase"
)

// requestTimeout bounds a single request. The verify poller alone can sleep
// ~9s across its backoffs, so this stays well above that.
const requestTimeout = 20 * time.Second

// Server wires the public checkout surface: session creation, verification,
// the redirect bridge back into the app scheme, and webhook ingestion.
type Server struct {
	cfg        *config.Config
	checkoutUC usecase.CheckoutUseCase
	webhookUC  usecase.WebhookUseCase
	log        *zerolog.Logger
}

func NewServer(cfg *config.Config, checkoutUC usecase.CheckoutUseCase, webhookUC usecase.WebhookUseCase, logger *zerolog.Logger) *Server {
	return &Server{cfg: cfg, checkoutUC: checkoutUC, webhookUC: webhookUC, log: logger}
}

// Router builds the chi mux with the standard middleware chain.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))
	r.Use(Timeout(requestTimeout))

	r.Post("/checkout", s.handleCreateCheckout)
	r.Get("/verify-checkout/{checkoutID}", s.handleVerifyCheckout)
	r.Get("/payment-success", s.handlePaymentSuccess)
	r.Get("/payment-cancelled", s.handlePaymentCancelled)
	r.Post("/webhook", s.handleWebhook)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
