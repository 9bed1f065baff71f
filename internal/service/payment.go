package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prepkit/payment-service/internal/catalog"
	"github.com/prepkit/payment-service/internal/config"
	"github.com/prepkit/payment-service/internal/constants"
	"github.com/prepkit/payment-service/internal/metrics"
	"github.com/prepkit/payment-service/internal/model"
	"github.com/prepkit/payment-service/internal/repository"
	"github.com/prepkit/payment-service/pkg/midtrans"
	"go.uber.org/zap"
)

type PaymentWorkflowService interface {
	CreatePayment(ctx context.Context, cmd CreatePaymentCommand) (CreatePaymentResult, error)
	// CheckStatus polls the gateway and returns the authoritative, possibly
	// just-updated payment view.
	CheckStatus(ctx context.Context, orderID string) (model.Payment, error)
	// HandleNotification verifies and applies an inbound webhook payload.
	// A nil error means the delivery must be acknowledged, including for
	// duplicates and unknown orders.
	HandleNotification(ctx context.Context, payload []byte) (NotificationResult, error)
}

type paymentWorkflow struct {
	catalog    catalog.Catalog
	gateway    midtrans.Gateway
	payments   repository.PaymentRepository
	balances   repository.UserBalanceRepository
	reconciler ReconcilerService
	gwConfig   midtrans.Config
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func NewPaymentWorkflowService(catalog catalog.Catalog, gateway midtrans.Gateway,
	payments repository.PaymentRepository, balances repository.UserBalanceRepository,
	reconciler ReconcilerService, cfg *config.Config, logger *zap.Logger,
	metrics *metrics.Metrics) PaymentWorkflowService {
	return &paymentWorkflow{catalog: catalog, gateway: gateway, payments: payments, balances: balances,
		reconciler: reconciler, gwConfig: cfg.Midtrans, logger: logger, metrics: metrics}
}

func (s *paymentWorkflow) CreatePayment(ctx context.Context, cmd CreatePaymentCommand) (CreatePaymentResult, error) {
	pkg, ok := s.catalog.Get(cmd.PackageID)
	if !ok {
		s.metrics.RecordPaymentCreationError(constants.ErrCodeUnknownPackage)
		return CreatePaymentResult{}, NewServiceError(constants.ErrCodeUnknownPackage, ErrUnknownPackage)
	}

	if err := s.ensureBalanceAccount(ctx, cmd.UserID); err != nil {
		s.metrics.RecordPaymentCreationError(constants.ErrCodeDatabase)
		return CreatePaymentResult{}, err
	}

	orderID := newOrderID(cmd.UserID)

	request := midtrans.SnapRequest{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:     orderID,
			GrossAmount: pkg.Price,
		},
		ItemDetails: []midtrans.ItemDetail{
			{
				ID:       pkg.ID,
				Price:    pkg.Price,
				Quantity: 1,
				Name:     fmt.Sprintf("%s - %d Tokens", pkg.DisplayName, pkg.Tokens),
			},
		},
		CustomerDetails: midtrans.CustomerDetails{
			FirstName: cmd.Customer.FirstName,
			Email:     cmd.Customer.Email,
			Phone:     cmd.Customer.Phone,
		},
		Callbacks: s.callbacks(),
	}

	// Never retried: an ambiguous failure may have created a provider-side
	// session for this order id already.
	session, err := s.gateway.CreateTransaction(ctx, request)
	if err != nil {
		code := constants.ErrCodeGatewayUnavailable
		if errors.Is(err, midtrans.ErrInvalidRequest) {
			code = constants.ErrCodeGatewayInvalidRequest
		}

		s.logger.Error("Gateway session creation failed, aborting payment",
			zap.String("userID", cmd.UserID),
			zap.String("package", cmd.PackageID),
			zap.Error(err))
		s.metrics.RecordPaymentCreationError(code)

		return CreatePaymentResult{}, NewServiceError(code, err)
	}

	now := time.Now()
	payment := model.Payment{
		OrderID:     orderID,
		UserID:      cmd.UserID,
		PackageID:   pkg.ID,
		TokenAmount: pkg.Tokens,
		Price:       pkg.Price,
		Status:      model.PaymentStatusPending,
		SnapToken:   &session.Token,
		RedirectURL: &session.RedirectURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.payments.Create(ctx, &payment); err != nil {
		if errors.Is(err, repository.ErrPaymentDuplicate) {
			s.metrics.RecordPaymentCreationError(constants.ErrCodeDuplicateOrderID)
			return CreatePaymentResult{}, NewServiceError(constants.ErrCodeDuplicateOrderID, err)
		}

		s.logger.Error("Gateway session created but payment persistence failed",
			zap.String("orderID", orderID),
			zap.String("userID", cmd.UserID),
			zap.Error(err))
		s.metrics.RecordPaymentCreationError(constants.ErrCodeDatabase)

		return CreatePaymentResult{}, NewServiceError(constants.ErrCodeDatabase, err)
	}

	s.metrics.RecordPaymentCreated(pkg.ID)
	s.logger.Info("Payment created",
		zap.String("orderID", orderID),
		zap.String("userID", cmd.UserID),
		zap.String("package", pkg.ID),
		zap.Int64("tokens", pkg.Tokens),
		zap.Int64("price", pkg.Price))

	return CreatePaymentResult{
		OrderID:     payment.OrderID,
		SnapToken:   session.Token,
		RedirectURL: session.RedirectURL,
		PackageID:   payment.PackageID,
		TokenAmount: payment.TokenAmount,
		Price:       payment.Price,
	}, nil
}

func (s *paymentWorkflow) CheckStatus(ctx context.Context, orderID string) (model.Payment, error) {
	if _, err := s.payments.GetByOrderID(ctx, orderID); err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return model.Payment{}, NewServiceError(constants.ErrCodePaymentNotFound, err)
		}
		return model.Payment{}, NewServiceError(constants.ErrCodeDatabase, err)
	}

	status, err := s.queryStatusWithRetry(ctx, orderID)
	if err != nil {
		if errors.Is(err, midtrans.ErrNotFound) {
			s.logger.Warn("Gateway does not know order",
				zap.String("orderID", orderID))
			return model.Payment{}, NewServiceError(constants.ErrCodePaymentNotFound, err)
		}

		s.logger.Error("Gateway status query failed",
			zap.String("orderID", orderID),
			zap.Error(err))
		return model.Payment{}, NewServiceError(constants.ErrCodeGatewayUnavailable, err)
	}

	cmd := ReconcileCommand{
		OrderID: orderID,
		Status:  model.PaymentStatus(midtrans.MapStatus(status.TransactionStatus, status.FraudStatus)),
		Meta:    gatewayMeta(status),
	}

	return s.reconciler.Reconcile(ctx, cmd)
}

func (s *paymentWorkflow) HandleNotification(ctx context.Context, payload []byte) (NotificationResult, error) {
	status, err := s.gateway.VerifyNotification(ctx, payload)
	if err != nil {
		if errors.Is(err, midtrans.ErrInvalidSignature) {
			s.logger.Warn("Rejected unverifiable notification", zap.Error(err))
			s.metrics.RecordNotification("invalid")
			return NotificationResult{}, NewServiceError(constants.ErrCodeInvalidWebhookSignature, err)
		}

		// Verification could not reach the provider. Failing the delivery
		// makes the gateway redeliver later, when verification may succeed.
		s.logger.Error("Notification verification failed", zap.Error(err))
		s.metrics.RecordNotification("gateway_error")
		return NotificationResult{}, NewServiceError(constants.ErrCodeGatewayUnavailable, err)
	}

	cmd := ReconcileCommand{
		OrderID: status.OrderID,
		Status:  model.PaymentStatus(midtrans.MapStatus(status.TransactionStatus, status.FraudStatus)),
		Meta:    gatewayMeta(status),
	}

	payment, err := s.reconciler.Reconcile(ctx, cmd)
	if err != nil {
		var serviceErr Error
		if errors.As(err, &serviceErr) && serviceErr.Code == constants.ErrCodePaymentNotFound {
			// Acknowledge anyway: redelivering a notification for an order we
			// never issued would only cause a retry storm.
			s.logger.Warn("Notification for unknown order, acknowledging",
				zap.String("orderID", status.OrderID),
				zap.String("transactionStatus", status.TransactionStatus))
			s.metrics.RecordNotification("unknown_order")
			return NotificationResult{OrderID: status.OrderID, Known: false}, nil
		}

		s.metrics.RecordNotification("error")
		return NotificationResult{}, err
	}

	s.metrics.RecordNotification("processed")
	s.logger.Info("Notification processed",
		zap.String("orderID", status.OrderID),
		zap.String("transactionStatus", status.TransactionStatus),
		zap.String("fraudStatus", status.FraudStatus),
		zap.String("status", string(payment.Status)))

	return NotificationResult{OrderID: status.OrderID, Known: true, Status: payment.Status}, nil
}

// queryStatusWithRetry retries the read-only status poll on transient gateway
// failures. Session creation is deliberately excluded from this treatment.
func (s *paymentWorkflow) queryStatusWithRetry(ctx context.Context, orderID string) (midtrans.StatusResponse, error) {
	maxRetry := s.gwConfig.MaxRetries
	if maxRetry <= 0 {
		maxRetry = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetry; attempt++ {
		status, err := s.gateway.QueryStatus(ctx, orderID)
		if err == nil {
			return status, nil
		}

		if errors.Is(err, midtrans.ErrNotFound) || errors.Is(err, midtrans.ErrInvalidRequest) {
			return midtrans.StatusResponse{}, err
		}

		s.logger.Debug("Status query attempt failed",
			zap.String("orderID", orderID),
			zap.Int("attempt", attempt),
			zap.Error(err))
		lastErr = err
	}

	return midtrans.StatusResponse{}, lastErr
}

func (s *paymentWorkflow) ensureBalanceAccount(ctx context.Context, userID string) error {
	now := time.Now()
	ub := model.UserBalance{UserID: userID, Balance: 0, CreatedAt: now, UpdatedAt: now}

	err := s.balances.Create(ctx, &ub)
	if err == nil || errors.Is(err, repository.ErrUserBalanceExists) {
		return nil
	}

	s.logger.Error("Failed to ensure balance account",
		zap.String("userID", userID),
		zap.Error(err))

	return NewServiceError(constants.ErrCodeDatabase, err)
}

func (s *paymentWorkflow) callbacks() *midtrans.Callbacks {
	if s.gwConfig.FinishURL == "" && s.gwConfig.ErrorURL == "" && s.gwConfig.PendingURL == "" {
		return nil
	}

	return &midtrans.Callbacks{
		Finish:  s.gwConfig.FinishURL,
		Error:   s.gwConfig.ErrorURL,
		Pending: s.gwConfig.PendingURL,
	}
}

func gatewayMeta(status midtrans.StatusResponse) model.GatewayMeta {
	return model.GatewayMeta{
		TransactionID: status.TransactionID,
		PaymentMethod: status.PaymentType,
		RawResponse:   string(status.Raw),
	}
}

func newOrderID(userID string) string {
	return fmt.Sprintf("ORDER-%s-%d-%s", userID, time.Now().UnixMilli(), uuid.NewString()[:8])
}
