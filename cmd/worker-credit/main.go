package main

import (
	"context"

	"github.com/prepkit/payment-service/internal/config"
	"github.com/prepkit/payment-service/internal/consumers"
	"github.com/prepkit/payment-service/internal/database"
	"github.com/prepkit/payment-service/internal/metrics"
	"github.com/prepkit/payment-service/internal/publishers"
	"github.com/prepkit/payment-service/internal/repository"
	"github.com/prepkit/payment-service/internal/service"
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
			NewMQConsumer,

			repository.NewPaymentRepository,
			repository.NewUserBalanceRepository,
			repository.NewTransactionManager,

			prometheus.NewRegistry,
			NewMetrics,
			service.NewReconcilerService,

			consumers.NewCreditConsumer,
		),
		fx.Invoke(metrics.RegisterDatabaseMetrics, runCreditConsumer),
	).Run()
}

func runCreditConsumer(creditConsumer consumers.CreditConsumer, logger *zap.Logger,
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
				if err := creditConsumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("credit consumer started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping credit consumer")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.MQ, logger)
}

func NewMQConsumer(rabbit *mq.RabbitMQ) (mq.Consumer, error) {
	ch, err := rabbit.OpenChannel()
	if err != nil {
		return nil, err
	}
	return mq.NewRabbitConsumer(ch), nil
}

func NewMetrics(registry *prometheus.Registry) *metrics.Metrics {
	return metrics.NewMetrics(registry)
}
