// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creem-checkout-backend/internal/config"
	"creem-checkout-backend/internal/domain/ports/repository"
	"creem-checkout-backend/internal/infra/api"
	"creem-checkout-backend/internal/infra/entitlement"
	"creem-checkout-backend/internal/infra/logging"
	"creem-checkout-backend/internal/infra/metrics"
	"creem-checkout-backend/internal/infra/payment"
	red "creem-checkout-backend/internal/infra/redis"
	"creem-checkout-backend/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (relaxed verification, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}
	if cfg.Verify.AllowUnverified {
		logger.Warn().Msg("verify.allow_unverified is on; unresolved checkouts will be treated as paid")
	}

	metrics.MustRegister()

	// ---- Redis (optional; webhook delivery dedup) ----
	var dedup repository.DeliveryDedup
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		dedup = red.NewEventDedup(redisClient, cfg.Redis.TTL)
		logger.Info().Str("addr", cfg.Redis.URL).Msg("webhook dedup backed by redis")
	} else {
		logger.Info().Msg("redis not configured; webhook deliveries are not deduplicated")
	}

	// ---- Payment platform ----
	gateway := payment.NewCreemGateway(&cfg.Creem)
	logger.Info().
		Str("provider", gateway.Name()).
		Str("environment", cfg.Creem.Environment).
		Str("api_key", logging.Redact(cfg.Creem.APIKey, cfg.Runtime.Dev)).
		Msg("payment platform configured")

	// ---- Use cases ----
	checkoutUC := usecase.NewCheckoutUseCase(gateway, cfg.Verify, logger)
	webhookUC := usecase.NewWebhookUseCase(entitlement.NewLogService(logger), dedup, logger)

	// ---- HTTP server ----
	srv := api.NewServer(cfg, checkoutUC, webhookUC, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
