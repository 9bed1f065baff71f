package service

import (
	"errors"

	"github.com/prepkit/payment-service/internal/constants"
	"github.com/prepkit/payment-service/internal/model"
	"github.com/prepkit/payment-service/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// BalanceService serves the read-only caller surface. It carries no
// reconciliation logic.
type BalanceService interface {
	GetBalance(userID string) (model.UserBalance, error)
	GetHistory(userID string, page, limit int) (PaymentHistoryResult, error)
}

type balanceService struct {
	payments repository.PaymentRepository
	balances repository.UserBalanceRepository
	logger   *zap.Logger
}

func NewBalanceService(payments repository.PaymentRepository, balances repository.UserBalanceRepository,
	logger *zap.Logger) BalanceService {
	return &balanceService{payments: payments, balances: balances, logger: logger}
}

func (s *balanceService) GetBalance(userID string) (model.UserBalance, error) {
	ub, err := s.balances.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserBalanceNotFound) {
			return model.UserBalance{}, NewServiceError(constants.ErrCodeUserNotFound, err)
		}

		s.logger.Error("Failed to get user balance",
			zap.String("userID", userID),
			zap.Error(err))
		return model.UserBalance{}, NewServiceError(constants.ErrCodeDatabase, err)
	}

	return ub, nil
}

func (s *balanceService) GetHistory(userID string, page, limit int) (PaymentHistoryResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	payments, err := s.payments.GetByUserID(userID, limit, (page-1)*limit)
	if err != nil {
		s.logger.Error("Failed to list payments",
			zap.String("userID", userID),
			zap.Error(err))
		return PaymentHistoryResult{}, NewServiceError(constants.ErrCodeDatabase, err)
	}

	total, err := s.payments.CountByUserID(userID)
	if err != nil {
		s.logger.Error("Failed to count payments",
			zap.String("userID", userID),
			zap.Error(err))
		return PaymentHistoryResult{}, NewServiceError(constants.ErrCodeDatabase, err)
	}

	return PaymentHistoryResult{
		Payments:   payments,
		Total:      total,
		Page:       page,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}
