package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-dashboard/internal/api/http"
	"github.com/spec-kit/ticket-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/ticket-dashboard/internal/auth"
	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/dashboard"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/export"
	"github.com/spec-kit/ticket-dashboard/internal/gateway"
	"github.com/spec-kit/ticket-dashboard/internal/notify"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/render"
	"github.com/spec-kit/ticket-dashboard/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()
	tokens := auth.NewTokenSource(
		auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		cfg.Auth.ServiceSubject,
		domain.ServiceRole(cfg.Auth.ServiceRole),
	)
	client := gateway.New(gateway.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout(),
		Tokens:  tokens,
		Logger:  logger.Named("gateway"),
		Metrics: metrics,
	})

	exportFormat, err := export.ParseFormat(cfg.Dashboard.ExportFormat)
	if err != nil {
		logger.Fatal("invalid export format", zap.String("format", cfg.Dashboard.ExportFormat), zap.Error(err))
	}

	renderer, err := render.New()
	if err != nil {
		logger.Fatal("failed to compile templates", zap.Error(err))
	}
	options := func() dashboard.Options {
		return dashboard.Options{
			Renderer:       renderer,
			Notifications:  notify.NewCenter(cfg.Dashboard.NotificationTTL()),
			Logger:         logger.Named("dashboard"),
			PageSize:       cfg.Dashboard.PageSize,
			SearchDebounce: cfg.Dashboard.SearchDebounce(),
		}
	}
	admin := dashboard.NewAdmin(client, options(), dashboard.WithExportFormat(exportFormat))
	defer admin.Close()
	user := dashboard.NewUser(client, options())
	defer user.Close()

	go initialLoad(ctx, logger, "admin", admin.Load)
	go initialLoad(ctx, logger, "user", user.Load)

	statsWorker := worker.NewStatsWorker(cfg.Dashboard.StatsRefreshInterval(), cfg.API.Timeout(), logger.Named("worker"))
	statsWorker.Register("admin", admin)
	statsWorker.Register("user", user)
	if err := statsWorker.Start(ctx); err != nil {
		logger.Warn("stats refresh disabled", zap.Error(err))
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, client, metrics),
		Admin:  handlers.NewDashboardHandler("admin", admin, logger),
		User:   handlers.NewDashboardHandler("user", user, logger),
		Export: handlers.NewExportHandler(admin),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	statsWorker.Stop()
	_ = app.Shutdown()
}

func initialLoad(ctx context.Context, logger *zap.Logger, name string, load func(context.Context) error) {
	if err := load(ctx); err != nil {
		logger.Warn("initial dashboard load failed", zap.String("dashboard", name), zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
