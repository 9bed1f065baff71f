package mocks

import (
	"context"

	"github.com/prepkit/payment-service/internal/model"
	"github.com/stretchr/testify/mock"
)

type UserBalanceRepository struct {
	mock.Mock
}

func (u *UserBalanceRepository) Create(ctx context.Context, ub *model.UserBalance) error {
	args := u.Called(ctx, ub)
	return args.Error(0)
}

func (u *UserBalanceRepository) FindByUserID(userID string) (model.UserBalance, error) {
	args := u.Called(userID)
	return args.Get(0).(model.UserBalance), args.Error(1)
}

func (u *UserBalanceRepository) IncrementBalance(ctx context.Context, userID string, delta int64) error {
	args := u.Called(ctx, userID, delta)
	return args.Error(0)
}
