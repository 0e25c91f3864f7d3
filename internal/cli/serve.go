package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/mariphil/foundation-site/internal/config"
	"github.com/mariphil/foundation-site/internal/contact"
	"github.com/mariphil/foundation-site/internal/content"
	"github.com/mariphil/foundation-site/internal/db"
	"github.com/mariphil/foundation-site/internal/domain/donation"
	"github.com/mariphil/foundation-site/internal/events"
	"github.com/mariphil/foundation-site/internal/mailer"
	"github.com/mariphil/foundation-site/internal/payments"
	"github.com/mariphil/foundation-site/internal/ratelimit"
	"github.com/mariphil/foundation-site/internal/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			slog.SetDefault(cfg.NewLogger())
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.AutoMigrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	queries := db.New(st.DB)

	var sender mailer.Sender = mailer.LogSender{}
	if cfg.SendGridAPIKey != "" {
		sender = mailer.NewSendGrid(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName, cfg.OutboundTimeout)
	} else {
		slog.Warn("SENDGRID_API_KEY not set, emails will only be logged")
	}

	var publisher events.Publisher = events.Noop{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		kp, err := events.NewKafkaPublisher(brokers, cfg.KafkaDonationsTopic)
		if err != nil {
			return err
		}
		publisher = kp
	}
	defer publisher.Close()

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("Redis unreachable, rate limiting and caching degrade", slog.String("error", err.Error()))
		}
	}

	proxies, err := cfg.Proxies()
	if err != nil {
		return err
	}
	checkout := newInitiator(cfg)
	if err := checkout.Err(); err != nil {
		slog.Warn("Checkout disabled", slog.String("error", err.Error()))
	}

	deps := server.Deps{
		Queries:  queries,
		Checkout: checkout,
		Webhooks: payments.NewReconciler(payments.ReconcilerConfig{
			WebhookSecret:  cfg.StripeWebhookSecret,
			HomeCurrency:   cfg.HomeCurrency,
			RecordRenewals: cfg.RecordRenewals,
		}, queries, sender, publisher),
		Contact:       contact.NewService(queries, sender, cfg.AdminEmail),
		APISecret:     cfg.APISecret,
		AdminTokenTTL:  cfg.AdminTokenTTL,
		TrustedProxies: proxies,
	}
	if rdb != nil {
		deps.Content = content.NewService(queries, rdb, cfg.ContentCacheTTL)
		deps.Limiter = ratelimit.New(rdb, cfg.RateLimitPerMinute, proxies)
	} else {
		deps.Content = content.NewService(queries, nil, 0)
	}
	if cfg.StripeWebhookSecret == "" {
		slog.Warn("STRIPE_WEBHOOK_SECRET not set, webhooks will be rejected")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.NewServer(deps).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		slog.Info("starting server", "port", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		return fmt.Errorf("listen: %w", err)
	}
	stop()
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		slog.Error("server shutdown", "err", err)
	}
	slog.Info("server stopped")
	return nil
}

// newInitiator reports a missing secret key per request instead of refusing
// to start.
func newInitiator(cfg *config.Config) *payments.Initiator {
	if cfg.StripeSecretKey == "" {
		return payments.NewFailedInitiator(&donation.ConfigurationError{Setting: "STRIPE_SECRET_KEY"})
	}
	sessions := payments.NewStripeSessions(cfg.StripeSecretKey, cfg.OutboundTimeout)
	return payments.NewInitiator(sessions, cfg.PublicBaseURL, cfg.HomeCurrency)
}
