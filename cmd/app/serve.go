package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fittrack/internal/api"
	"fittrack/internal/gateway"
	"fittrack/internal/middleware"
	"fittrack/internal/realtime"
	"fittrack/internal/repository"
	"fittrack/internal/service"
	"fittrack/pkg/auth"
	"fittrack/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const limiterCleanupInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:          "serve",
	Short:        "runs the HTTP API",
	SilenceUsage: true,
	RunE:         runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Logger()

	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwtSecret is required")
	}

	ctx := cmd.Context()

	repo, reachable, err := openRepository(ctx, cfg)
	if err != nil {
		log.Error("Failed to initialize repository", zap.Error(err))
		return err
	}
	defer repo.Close()

	if cfg.MigrateOnStart {
		if !reachable {
			log.Warn("Skipping migrations, database unreachable")
		} else if err := repo.Migrate(ctx); err != nil {
			log.Error("Failed to apply migrations", zap.Error(err))
			return err
		}
	}

	jwtAuth := auth.NewJWTAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	telegramAuth := auth.NewTelegramAuth(cfg.Telegram.BotToken, cfg.Telegram.Debug)

	hub := realtime.NewHub()
	defer hub.Close()

	rewardService := service.NewRewardService(repo)
	userService := service.NewUserService(repo, jwtAuth)
	catalogService := service.NewCatalogService(repo, repository.NewStaticCatalog(), cfg.DataSource)
	feedService := service.NewFeedService(repo, rewardService, hub)
	paymentService := service.NewPaymentService(
		repo,
		gateway.NewRazorpay(cfg.Payments.KeyID, cfg.Payments.KeySecret),
		membershipNotifier(cfg),
		cfg.paymentConfig(),
	)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	done := make(chan struct{})
	defer close(done)
	limiter.StartCleanup(limiterCleanupInterval, done)

	router := api.NewRouter(api.RouterDeps{
		Services: api.Services{
			Users:    userService,
			Rewards:  rewardService,
			Catalog:  catalogService,
			Feed:     feedService,
			Payments: paymentService,
		},
		JWT:      jwtAuth,
		Telegram: telegramAuth,
		Hub:      hub,
		Limiter:  limiter,
	})

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server", zap.String("addr", addr), zap.String("data_source", cfg.DataSource))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return err
	}

	return nil
}

// openRepository insists on a reachable database in live mode. In the other
// modes the server starts anyway and catalog reads fall back to static data.
func openRepository(ctx context.Context, cfg *Config) (*repository.Repository, bool, error) {
	if cfg.DataSource == service.SourceModeLive {
		repo, err := repository.New(cfg.Database)
		return repo, err == nil, err
	}

	repo, err := repository.Open(cfg.Database)
	if err != nil {
		return nil, false, err
	}

	if err := repo.Ping(ctx); err != nil {
		logger.Logger().Warn("Database unreachable, serving static catalog", zap.Error(err))
		return repo, false, nil
	}

	return repo, true, nil
}

func membershipNotifier(cfg *Config) service.MembershipNotifier {
	if cfg.Telegram.BotToken == "" {
		return nil
	}

	notifier, err := gateway.NewTelegramNotifier(gateway.TelegramConfig{
		BotToken: cfg.Telegram.BotToken,
		Debug:    cfg.Telegram.Debug,
	})
	if err != nil {
		logger.Logger().Warn("Telegram notifications disabled", zap.Error(err))
		return nil
	}

	return notifier
}
