package publishers

import (
	"context"
	"encoding/json"

	"github.com/prepkit/payment-service/internal/repository"
	"github.com/prepkit/payment-service/internal/service"
	"github.com/prepkit/payment-service/pkg/mq"
	"go.uber.org/zap"
)

const CreditQueue = "payment.credit"

// CreditPublisher is the reconciliation sweep: it finds successful payments
// whose ledger credit never completed (a crash between the transition and the
// credit) and replays them through the queue. The consumer is idempotent, so
// publishing the same order twice is harmless.
type CreditPublisher interface {
	Publish(ctx context.Context) error
}

type creditPublisher struct {
	payments  repository.PaymentRepository
	publisher mq.Publisher
	batchSize int
	logger    *zap.Logger
}

func NewCreditPublisher(payments repository.PaymentRepository, publisher mq.Publisher, batchSize int,
	logger *zap.Logger) CreditPublisher {
	return &creditPublisher{payments: payments, publisher: publisher, batchSize: batchSize, logger: logger}
}

func (c *creditPublisher) Publish(ctx context.Context) error {
	payments, err := c.payments.FindUncredited(c.batchSize)
	if err != nil {
		c.logger.Error("Failed to find uncredited payments", zap.Error(err))
		return err
	}

	if len(payments) == 0 {
		return nil
	}

	c.logger.Info("Publishing pending credits", zap.Int("count", len(payments)))

	successCount := 0
	for _, payment := range payments {
		cmd := service.CompleteCreditCommand{OrderID: payment.OrderID}

		body, _ := json.Marshal(cmd)
		if err := c.publisher.Publish(ctx, "", CreditQueue, body); err != nil {
			c.logger.Error("Failed to publish credit command",
				zap.Error(err),
				zap.String("orderID", payment.OrderID))
			continue
		}

		successCount++
	}

	if successCount > 0 {
		c.logger.Info("Published pending credits",
			zap.Int("published", successCount),
			zap.Int("total", len(payments)))
	}

	return nil
}
