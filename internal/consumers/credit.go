package consumers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/prepkit/payment-service/internal/constants"
	"github.com/prepkit/payment-service/internal/service"
	"github.com/prepkit/payment-service/pkg/mq"
	"go.uber.org/zap"
)

const creditQueue = "payment.credit"

type CreditConsumer interface {
	Consume(ctx context.Context) error
}

type creditConsumer struct {
	reconciler service.ReconcilerService
	consumer   mq.Consumer
	logger     *zap.Logger
}

func NewCreditConsumer(reconciler service.ReconcilerService, consumer mq.Consumer, logger *zap.Logger) CreditConsumer {
	return &creditConsumer{reconciler: reconciler, consumer: consumer, logger: logger}
}

func (c *creditConsumer) Consume(ctx context.Context) error {
	return c.consumer.Consume(ctx, 1, creditQueue, c.handleMessage)
}

func (c *creditConsumer) handleMessage(ctx context.Context, body []byte) error {
	var cmd service.CompleteCreditCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		c.logger.Warn("Invalid credit command", zap.Error(err))
		return err
	}

	err := c.reconciler.CompleteCredit(ctx, cmd.OrderID)
	if err == nil {
		return nil
	}

	c.logger.Warn("Credit completion failed",
		zap.String("orderID", cmd.OrderID),
		zap.Error(err))

	var serviceErr service.Error
	if errors.As(err, &serviceErr) && serviceErr.Code == constants.ErrCodeDatabase {
		return mq.Temporary(err)
	}

	// Unknown order or missing balance account: redelivery cannot fix it,
	// leave the row for the next sweep and manual review.
	return err
}
