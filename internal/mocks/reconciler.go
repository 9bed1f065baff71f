package mocks

import (
	"context"

	"github.com/prepkit/payment-service/internal/model"
	"github.com/prepkit/payment-service/internal/service"
	"github.com/stretchr/testify/mock"
)

type Reconciler struct {
	mock.Mock
}

func (r *Reconciler) Reconcile(ctx context.Context, cmd service.ReconcileCommand) (model.Payment, error) {
	args := r.Called(ctx, cmd)
	return args.Get(0).(model.Payment), args.Error(1)
}

func (r *Reconciler) CompleteCredit(ctx context.Context, orderID string) error {
	args := r.Called(ctx, orderID)
	return args.Error(0)
}
