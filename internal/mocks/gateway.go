package mocks

import (
	"context"

	"github.com/prepkit/payment-service/pkg/midtrans"
	"github.com/stretchr/testify/mock"
)

type Gateway struct {
	mock.Mock
}

func (g *Gateway) CreateTransaction(ctx context.Context, request midtrans.SnapRequest) (midtrans.SnapResponse, error) {
	args := g.Called(ctx, request)
	return args.Get(0).(midtrans.SnapResponse), args.Error(1)
}

func (g *Gateway) QueryStatus(ctx context.Context, orderID string) (midtrans.StatusResponse, error) {
	args := g.Called(ctx, orderID)
	return args.Get(0).(midtrans.StatusResponse), args.Error(1)
}

func (g *Gateway) VerifyNotification(ctx context.Context, payload []byte) (midtrans.StatusResponse, error) {
	args := g.Called(ctx, payload)
	return args.Get(0).(midtrans.StatusResponse), args.Error(1)
}
