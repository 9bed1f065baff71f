package mocks

import (
	"context"
	"time"

	"github.com/prepkit/payment-service/internal/model"
	"github.com/stretchr/testify/mock"
)

type PaymentRepository struct {
	mock.Mock
}

func (p *PaymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	args := p.Called(ctx, payment)
	return args.Error(0)
}

func (p *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	args := p.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (p *PaymentRepository) GetByUserID(userID string, limit, offset int) ([]model.Payment, error) {
	args := p.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

func (p *PaymentRepository) CountByUserID(userID string) (int, error) {
	args := p.Called(userID)
	return args.Int(0), args.Error(1)
}

func (p *PaymentRepository) UpdateStatusIfPending(ctx context.Context, orderID string, status model.PaymentStatus, meta model.GatewayMeta) (*model.Payment, bool, error) {
	args := p.Called(ctx, orderID, status, meta)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Payment), args.Bool(1), args.Error(2)
}

func (p *PaymentRepository) MarkCredited(ctx context.Context, orderID string, at time.Time) (bool, error) {
	args := p.Called(ctx, orderID, at)
	return args.Bool(0), args.Error(1)
}

func (p *PaymentRepository) FindUncredited(limit int) ([]model.Payment, error) {
	args := p.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}
