package main

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prepkit/payment-service/internal/api"
	xvalidator "github.com/prepkit/payment-service/internal/api/validator"
	v1 "github.com/prepkit/payment-service/internal/api/v1"
	"github.com/prepkit/payment-service/internal/catalog"
	"github.com/prepkit/payment-service/internal/config"
	"github.com/prepkit/payment-service/internal/database"
	middleware "github.com/prepkit/payment-service/internal/error"
	"github.com/prepkit/payment-service/internal/metrics"
	"github.com/prepkit/payment-service/internal/repository"
	"github.com/prepkit/payment-service/internal/service"
	"github.com/prepkit/payment-service/pkg/httpclient"
	"github.com/prepkit/payment-service/pkg/midtrans"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewFiberApp,

			database.NewConnection,
			repository.NewPaymentRepository,
			repository.NewUserBalanceRepository,
			repository.NewTransactionManager,

			NewCatalog,
			NewPaymentGateway,

			prometheus.NewRegistry,
			NewMetrics,
			validator.New,
			xvalidator.NewXValidator,

			service.NewReconcilerService,
			service.NewPaymentWorkflowService,
			service.NewBalanceService,

			v1.NewHandler,
		),
		fx.Invoke(metrics.RegisterDatabaseMetrics, startServer),
	).Run()
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, m *metrics.Metrics,
	registry *prometheus.Registry, logger *zap.Logger, lc fx.Lifecycle) {
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))
	api.SetupRoutes(app, handler)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go app.Listen(cfg.API.Port)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

func NewFiberApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
}

func NewCatalog(cfg *config.Config) catalog.Catalog {
	return catalog.New(cfg.Catalog)
}

func NewPaymentGateway(cfg *config.Config) midtrans.Gateway {
	client := httpclient.NewHTTPClient(cfg.Midtrans.Timeout)
	return midtrans.NewGateway(cfg.Midtrans, client)
}

func NewMetrics(registry *prometheus.Registry) *metrics.Metrics {
	return metrics.NewMetrics(registry)
}
