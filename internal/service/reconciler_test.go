package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prepkit/payment-service/internal/constants"
	"github.com/prepkit/payment-service/internal/metrics"
	"github.com/prepkit/payment-service/internal/mocks"
	"github.com/prepkit/payment-service/internal/model"
	"github.com/prepkit/payment-service/internal/repository"
	"github.com/prepkit/payment-service/internal/service"
	"github.com/prepkit/payment-service/pkg/midtrans"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newTestMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.NewRegistry())
}

func TestReconciler_Reconcile(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	pendingPayment := func() *model.Payment {
		return &model.Payment{
			OrderID:     "ORDER-1",
			UserID:      "user-1",
			PackageID:   "basic",
			TokenAmount: 10,
			Price:       50000,
			Status:      model.PaymentStatusPending,
		}
	}

	successPayment := func() *model.Payment {
		p := pendingPayment()
		p.Status = model.PaymentStatusSuccess
		return p
	}

	t.Run("First success report transitions and credits", func(t *testing.T) {
		payments := &mocks.PaymentRepository{}
		balances := &mocks.UserBalanceRepository{}
		txManager := &mocks.TxManager{}
		svc := service.NewReconcilerService(payments, balances, txManager, logger, newTestMetrics())

		cmd := service.ReconcileCommand{OrderID: "ORDER-1", Status: model.PaymentStatusSuccess}

		payments.On("UpdateStatusIfPending", ctx, "ORDER-1", model.PaymentStatusSuccess, cmd.Meta).
			Return(successPayment(), true, nil)
		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		payments.On("GetByOrderID", ctx, "ORDER-1").Return(successPayment(), nil)
		payments.On("MarkCredited", ctx, "ORDER-1", mock.AnythingOfType("time.Time")).Return(true, nil)
		balances.On("IncrementBalance", ctx, "user-1", int64(10)).Return(nil)

		payment, err := svc.Reconcile(ctx, cmd)

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusSuccess, payment.Status)
		payments.AssertExpectations(t)
		balances.AssertNumberOfCalls(t, "IncrementBalance", 1)
	})

	t.Run("Duplicate success report does not credit again", func(t *testing.T) {
		payments := &mocks.PaymentRepository{}
		balances := &mocks.UserBalanceRepository{}
		txManager := &mocks.TxManager{}
		svc := service.NewReconcilerService(payments, balances, txManager, logger, newTestMetrics())

		settled := successPayment()
		creditedAt := time.Now()
		settled.CreditedAt = &creditedAt

		cmd := service.ReconcileCommand{OrderID: "ORDER-1", Status: model.PaymentStatusSuccess}

		payments.On("UpdateStatusIfPending", ctx, "ORDER-1", model.PaymentStatusSuccess, cmd.Meta).
			Return(settled, false, nil)

		payment, err := svc.Reconcile(ctx, cmd)

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusSuccess, payment.Status)
		balances.AssertNotCalled(t, "IncrementBalance")
		txManager.AssertNotCalled(t, "WithTx")
	})

	t.Run("Pending report never transitions", func(t *testing.T) {
		payments := &mocks.PaymentRepository{}
		balances := &mocks.UserBalanceRepository{}
		txManager := &mocks.TxManager{}
		svc := service.NewReconcilerService(payments, balances, txManager, logger, newTestMetrics())

		cmd := service.ReconcileCommand{OrderID: "ORDER-1", Status: model.PaymentStatusPending}

		payments.On("UpdateStatusIfPending", ctx, "ORDER-1", model.PaymentStatusPending, cmd.Meta).
			Return(pendingPayment(), false, nil)

		payment, err := svc.Reconcile(ctx, cmd)

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPending, payment.Status)
		balances.AssertNotCalled(t, "IncrementBalance")
	})

	t.Run("Terminal status is never downgraded by a late report", func(t *testing.T) {
		payments := &mocks.PaymentRepository{}
		balances := &mocks.UserBalanceRepository{}
		txManager := &mocks.TxManager{}
		svc := service.NewReconcilerService(payments, balances, txManager, logger, newTestMetrics())

		cmd := service.ReconcileCommand{OrderID: "ORDER-1", Status: model.PaymentStatusExpired}

		payments.On("UpdateStatusIfPending", ctx, "ORDER-1", model.PaymentStatusExpired, cmd.Meta).
			Return(successPayment(), false, nil)

		payment, err := svc.Reconcile(ctx, cmd)

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusSuccess, payment.Status)
	})

	t.Run("Failed transition does not touch the ledger", func(t *testing.T) {
		payments := &mocks.PaymentRepository{}
		balances := &mocks.UserBalanceRepository{}
		txManager := &mocks.TxManager{}
		svc := service.NewReconcilerService(payments, balances, txManager, logger, newTestMetrics())

		failed := pendingPayment()
		failed.Status = model.PaymentStatusFailed

		cmd := service.ReconcileCommand{OrderID: "ORDER-1", Status: model.PaymentStatusFailed}

		payments.On("UpdateStatusIfPending", ctx, "ORDER-1", model.PaymentStatusFailed, cmd.Meta).
			Return(failed, true, nil)

		payment, err := svc.Reconcile(ctx, cmd)

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusFailed, payment.Status)
		balances.AssertNotCalled(t, "IncrementBalance")
		txManager.AssertNotCalled(t, "WithTx")
	})

	t.Run("Unknown order", func(t *testing.T) {
		payments := &mocks.PaymentRepository{}
		balances := &mocks.UserBalanceRepository{}
		txManager := &mocks.TxManager{}
		svc := service.NewReconcilerService(payments, balances, txManager, logger, newTestMetrics())

		cmd := service.ReconcileCommand{OrderID: "ORDER-unknown", Status: model.PaymentStatusSuccess}

		payments.On("UpdateStatusIfPending", ctx, "ORDER-unknown", model.PaymentStatusSuccess, cmd.Meta).
			Return(nil, false, repository.ErrPaymentNotFound)

		_, err := svc.Reconcile(ctx, cmd)

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodePaymentNotFound, serviceErr.Code)
	})

	t.Run("Credit failure leaves the transition durable for the sweep", func(t *testing.T) {
		payments := &mocks.PaymentRepository{}
		balances := &mocks.UserBalanceRepository{}
		txManager := &mocks.TxManager{}
		svc := service.NewReconcilerService(payments, balances, txManager, logger, newTestMetrics())

		cmd := service.ReconcileCommand{OrderID: "ORDER-1", Status: model.PaymentStatusSuccess}

		payments.On("UpdateStatusIfPending", ctx, "ORDER-1", model.PaymentStatusSuccess, cmd.Meta).
			Return(successPayment(), true, nil)
		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		payments.On("GetByOrderID", ctx, "ORDER-1").Return(successPayment(), nil)
		payments.On("MarkCredited", ctx, "ORDER-1", mock.AnythingOfType("time.Time")).
			Return(false, errors.New("connection lost"))

		payment, err := svc.Reconcile(ctx, cmd)

		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusSuccess, payment.Status)
		balances.AssertNotCalled(t, "IncrementBalance")
	})
}

// A card capture held for fraud review arrives first as a webhook, then a
// later poll reports the accepted capture. The first report must keep the row
// open and the second must settle and credit it, exactly once.
func TestReconciler_ChallengeThenAccept(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	payments := &mocks.PaymentRepository{}
	balances := &mocks.UserBalanceRepository{}
	txManager := &mocks.TxManager{}
	svc := service.NewReconcilerService(payments, balances, txManager, logger, newTestMetrics())

	challenged := model.PaymentStatus(midtrans.MapStatus("capture", "challenge"))
	accepted := model.PaymentStatus(midtrans.MapStatus("capture", "accept"))
	assert.Equal(t, model.PaymentStatusPending, challenged)
	assert.Equal(t, model.PaymentStatusSuccess, accepted)

	open := &model.Payment{
		OrderID:     "ORDER-1",
		UserID:      "user-1",
		TokenAmount: 10,
		Status:      model.PaymentStatusPending,
	}

	payments.On("UpdateStatusIfPending", ctx, "ORDER-1", challenged, model.GatewayMeta{}).
		Return(open, false, nil).Once()

	first, err := svc.Reconcile(ctx, service.ReconcileCommand{OrderID: "ORDER-1", Status: challenged})

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, first.Status)
	balances.AssertNotCalled(t, "IncrementBalance")
	txManager.AssertNotCalled(t, "WithTx")

	settled := &model.Payment{
		OrderID:     "ORDER-1",
		UserID:      "user-1",
		TokenAmount: 10,
		Status:      model.PaymentStatusSuccess,
	}

	payments.On("UpdateStatusIfPending", ctx, "ORDER-1", accepted, model.GatewayMeta{}).
		Return(settled, true, nil).Once()
	txManager.On("WithTx", ctx, mock.Anything).Return(nil)
	payments.On("GetByOrderID", ctx, "ORDER-1").Return(settled, nil)
	payments.On("MarkCredited", ctx, "ORDER-1", mock.AnythingOfType("time.Time")).Return(true, nil)
	balances.On("IncrementBalance", ctx, "user-1", int64(10)).Return(nil)

	second, err := svc.Reconcile(ctx, service.ReconcileCommand{OrderID: "ORDER-1", Status: accepted})

	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusSuccess, second.Status)
	balances.AssertNumberOfCalls(t, "IncrementBalance", 1)
	payments.AssertExpectations(t)
}

func TestReconciler_CompleteCredit(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	payment := &model.Payment{
		OrderID:     "ORDER-1",
		UserID:      "user-1",
		TokenAmount: 25,
		Status:      model.PaymentStatusSuccess,
	}

	t.Run("Credits exactly once", func(t *testing.T) {
		payments := &mocks.PaymentRepository{}
		balances := &mocks.UserBalanceRepository{}
		txManager := &mocks.TxManager{}
		svc := service.NewReconcilerService(payments, balances, txManager, logger, newTestMetrics())

		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		payments.On("GetByOrderID", ctx, "ORDER-1").Return(payment, nil)
		payments.On("MarkCredited", ctx, "ORDER-1", mock.AnythingOfType("time.Time")).
			Return(true, nil).Once()
		payments.On("MarkCredited", ctx, "ORDER-1", mock.AnythingOfType("time.Time")).
			Return(false, nil)
		balances.On("IncrementBalance", ctx, "user-1", int64(25)).Return(nil)

		assert.NoError(t, svc.CompleteCredit(ctx, "ORDER-1"))
		assert.NoError(t, svc.CompleteCredit(ctx, "ORDER-1"))
		assert.NoError(t, svc.CompleteCredit(ctx, "ORDER-1"))

		balances.AssertNumberOfCalls(t, "IncrementBalance", 1)
	})

	t.Run("Missing balance account surfaces user not found", func(t *testing.T) {
		payments := &mocks.PaymentRepository{}
		balances := &mocks.UserBalanceRepository{}
		txManager := &mocks.TxManager{}
		svc := service.NewReconcilerService(payments, balances, txManager, logger, newTestMetrics())

		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		payments.On("GetByOrderID", ctx, "ORDER-1").Return(payment, nil)
		payments.On("MarkCredited", ctx, "ORDER-1", mock.AnythingOfType("time.Time")).Return(true, nil)
		balances.On("IncrementBalance", ctx, "user-1", int64(25)).
			Return(repository.ErrUserBalanceNotFound)

		err := svc.CompleteCredit(ctx, "ORDER-1")

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodeUserNotFound, serviceErr.Code)
	})

	t.Run("Unknown order", func(t *testing.T) {
		payments := &mocks.PaymentRepository{}
		balances := &mocks.UserBalanceRepository{}
		txManager := &mocks.TxManager{}
		svc := service.NewReconcilerService(payments, balances, txManager, logger, newTestMetrics())

		txManager.On("WithTx", ctx, mock.Anything).Return(nil)
		payments.On("GetByOrderID", ctx, "ORDER-gone").Return(nil, repository.ErrPaymentNotFound)

		err := svc.CompleteCredit(ctx, "ORDER-gone")

		var serviceErr service.Error
		assert.True(t, errors.As(err, &serviceErr))
		assert.Equal(t, constants.ErrCodePaymentNotFound, serviceErr.Code)
		balances.AssertNotCalled(t, "IncrementBalance")
	})
}
