package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/sensationsbyarda-lgtm/Senteurs/internal/analytics"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/auth"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/cart"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/catalog"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/checkout"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/config"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/customer"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/db"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/events"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/httpapi"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/notify"
	"github.com/sensationsbyarda-lgtm/Senteurs/internal/order"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "senteurs").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	if err := db.RunMigrations(cfg.Postgres.DSN, logger); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()

	productRepo := catalog.NewPostgresRepository(pool)
	customerRepo := customer.NewPostgresRepository(pool)
	orderRepo := order.NewPostgresRepository(pool)
	adminRepo := auth.NewPostgresRepository(pool)

	// Mail and the event broker are both optional; the dispatcher skips
	// whichever is not configured.
	var mailer notify.Mailer
	if cfg.SMTP.Host != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From, cfg.Shop.Name)
	} else {
		logger.Warn().Msg("SMTP not configured, mail notifications disabled")
	}

	var publisher notify.EventPublisher
	if cfg.Rabbit.URL != "" {
		conn, err := amqp.Dial(cfg.Rabbit.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect to rabbitmq")
		}
		defer conn.Close()

		p, err := events.NewPublisher(conn)
		if err != nil {
			logger.Fatal().Err(err).Msg("create event publisher")
		}
		defer p.Close()
		publisher = p
	} else {
		logger.Warn().Msg("RABBITMQ_URL not set, event publishing disabled")
	}

	dispatcher := notify.NewDispatcher(mailer, publisher, cfg.Admin.Email, cfg.Shop.Name, logger)

	catalogSvc := catalog.NewService(productRepo, logger)
	orderSvc := order.NewService(orderRepo, logger)
	checkoutSvc := checkout.NewService(productRepo, customerRepo, orderRepo, dispatcher, cfg.Shop.PhoneRegion, logger)
	analyticsSvc := analytics.NewService(orderRepo, productRepo, customerRepo)
	authSvc := auth.NewService(adminRepo, cfg.Admin.JWTSecret, cfg.Admin.TokenTTL, logger)

	carts := cart.NewStore(cfg.Shop.CartTTL)
	carts.StartJanitor(ctx, time.Hour)

	storefront := httpapi.NewStorefrontHandler(catalogSvc, checkoutSvc, carts, logger)
	admin := httpapi.NewAdminHandler(authSvc, catalogSvc, orderSvc, customerRepo, analyticsSvc, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      httpapi.NewRouter(storefront, admin),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.HTTP.Port).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown")
	}
}
