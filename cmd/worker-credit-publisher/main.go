package main

import (
	"context"
	"time"

	"github.com/prepkit/payment-service/internal/config"
	"github.com/prepkit/payment-service/internal/database"
	"github.com/prepkit/payment-service/internal/metrics"
	"github.com/prepkit/payment-service/internal/publishers"
	"github.com/prepkit/payment-service/internal/repository"
	"github.com/prepkit/payment-service/pkg/mq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,

			database.NewConnection,
			NewMQConnection,
			NewMQPublisher,

			repository.NewPaymentRepository,

			prometheus.NewRegistry,
			NewMetrics,

			NewCreditPublisher,
		),
		fx.Invoke(metrics.RegisterDatabaseMetrics, runCreditPublisher),
	).Run()
}

func runCreditPublisher(cfg *config.Config, publisher publishers.CreditPublisher, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{publishers.CreditQueue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			logger.Info("queue declared", zap.String("queue", publishers.CreditQueue))

			go func() {
				ticker := time.NewTicker(cfg.Sweep.Interval)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						if err := publisher.Publish(appCtx); err != nil {
							logger.Error("failed to publish pending credits", zap.Error(err))
						}
					case <-appCtx.Done():
						logger.Info("publisher context cancelled")
						return
					}
				}
			}()

			logger.Info("credit publisher started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping credit publisher")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.MQ, logger)
}

func NewMQPublisher(rabbit *mq.RabbitMQ) (mq.Publisher, error) {
	ch, err := rabbit.OpenChannel()
	if err != nil {
		return nil, err
	}
	return mq.NewRabbitPublisher(ch), nil
}

func NewCreditPublisher(cfg *config.Config, payments repository.PaymentRepository, publisher mq.Publisher,
	logger *zap.Logger) publishers.CreditPublisher {
	return publishers.NewCreditPublisher(payments, publisher, cfg.Sweep.BatchSize, logger)
}

func NewMetrics(registry *prometheus.Registry) *metrics.Metrics {
	return metrics.NewMetrics(registry)
}
