package service

import (
	"context"
	"errors"
	"time"

	"github.com/prepkit/payment-service/internal/constants"
	"github.com/prepkit/payment-service/internal/metrics"
	"github.com/prepkit/payment-service/internal/model"
	"github.com/prepkit/payment-service/internal/repository"
	"go.uber.org/zap"
)

// ReconcilerService is the single place a gateway status report is turned into
// a stored transition and, on first success, a ledger credit. Both the webhook
// path and the polling path funnel through it; duplicate or racing reports
// become no-ops at the conditional write.
type ReconcilerService interface {
	Reconcile(ctx context.Context, cmd ReconcileCommand) (model.Payment, error)
	// CompleteCredit applies the ledger credit for a successful payment at
	// most once. Safe to call any number of times, from any channel.
	CompleteCredit(ctx context.Context, orderID string) error
}

type reconciler struct {
	payments  repository.PaymentRepository
	balances  repository.UserBalanceRepository
	txManager repository.TxManager
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewReconcilerService(payments repository.PaymentRepository, balances repository.UserBalanceRepository,
	txManager repository.TxManager, logger *zap.Logger, metrics *metrics.Metrics) ReconcilerService {
	return &reconciler{payments: payments, balances: balances, txManager: txManager, logger: logger, metrics: metrics}
}

func (s *reconciler) Reconcile(ctx context.Context, cmd ReconcileCommand) (model.Payment, error) {
	payment, transitioned, err := s.payments.UpdateStatusIfPending(ctx, cmd.OrderID, cmd.Status, cmd.Meta)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return model.Payment{}, NewServiceError(constants.ErrCodePaymentNotFound, err)
		}

		s.logger.Error("Failed to apply status report",
			zap.String("orderID", cmd.OrderID),
			zap.String("status", string(cmd.Status)),
			zap.Error(err))
		return model.Payment{}, NewServiceError(constants.ErrCodeDatabase, err)
	}

	if !transitioned {
		if cmd.Status.Terminal() {
			s.logger.Info("Terminal status report ignored, payment already settled",
				zap.String("orderID", cmd.OrderID),
				zap.String("reported", string(cmd.Status)),
				zap.String("stored", string(payment.Status)))
			s.metrics.RecordDuplicateSignal()
		} else {
			s.logger.Debug("Pending status report, no transition",
				zap.String("orderID", cmd.OrderID))
		}

		return *payment, nil
	}

	s.metrics.RecordTransition(string(cmd.Status))
	s.logger.Info("Payment transitioned",
		zap.String("orderID", cmd.OrderID),
		zap.String("status", string(cmd.Status)))

	if cmd.Status != model.PaymentStatusSuccess {
		return *payment, nil
	}

	if err := s.CompleteCredit(ctx, cmd.OrderID); err != nil {
		// The transition is durable; the sweep finds success rows without
		// credited_at and finishes the credit.
		s.logger.Error("Transition recorded but credit incomplete, sweep will finish it",
			zap.String("orderID", cmd.OrderID),
			zap.Error(err))
		return *payment, nil
	}

	refreshed, err := s.payments.GetByOrderID(ctx, cmd.OrderID)
	if err != nil {
		return *payment, nil
	}

	return *refreshed, nil
}

func (s *reconciler) CompleteCredit(ctx context.Context, orderID string) error {
	var creditedTokens int64 = -1

	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		payment, err := s.payments.GetByOrderID(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrPaymentNotFound) {
				return NewServiceError(constants.ErrCodePaymentNotFound, err)
			}
			return NewServiceError(constants.ErrCodeDatabase, err)
		}

		credited, err := s.payments.MarkCredited(ctx, orderID, time.Now())
		if err != nil {
			return NewServiceError(constants.ErrCodeDatabase, err)
		}

		if !credited {
			s.logger.Debug("Credit already applied",
				zap.String("orderID", orderID))
			return nil
		}

		if err := s.balances.IncrementBalance(ctx, payment.UserID, payment.TokenAmount); err != nil {
			if errors.Is(err, repository.ErrUserBalanceNotFound) {
				return NewServiceError(constants.ErrCodeUserNotFound, err)
			}
			return NewServiceError(constants.ErrCodeDatabase, err)
		}

		creditedTokens = payment.TokenAmount
		return nil
	})

	if err != nil {
		return err
	}

	if creditedTokens >= 0 {
		s.metrics.RecordCredit(creditedTokens)
		s.logger.Info("Tokens credited",
			zap.String("orderID", orderID),
			zap.Int64("tokens", creditedTokens))
	}

	return nil
}
