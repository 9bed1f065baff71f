package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/prepkit/payment-service/internal/model"
	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("PAYMENT_NOT_FOUND")
var ErrPaymentDuplicate = errors.New("PAYMENT_DUPLICATE")

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	GetByUserID(userID string, limit, offset int) ([]model.Payment, error)
	CountByUserID(userID string) (int, error)
	// UpdateStatusIfPending applies a status report as a single conditional
	// write guarded on the row still being pending. It returns the refreshed
	// row and whether a transition into a terminal status actually occurred.
	// A pending report only refreshes gateway metadata and never transitions.
	UpdateStatusIfPending(ctx context.Context, orderID string, status model.PaymentStatus, meta model.GatewayMeta) (*model.Payment, bool, error)
	// MarkCredited sets credited_at, guarded on it being unset. Reports
	// whether this call won the guard.
	MarkCredited(ctx context.Context, orderID string, at time.Time) (bool, error)
	// FindUncredited lists successful payments whose ledger credit has not
	// completed, oldest first.
	FindUncredited(limit int) ([]model.Payment, error)
}

type Payment struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &Payment{db: db}
}

func (p *Payment) Create(ctx context.Context, payment *model.Payment) error {
	db := GetTx(ctx, p.db)
	err := db.Create(payment).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrPaymentDuplicate
	}

	return err
}

func (p *Payment) GetByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	db := GetTx(ctx, p.db)

	var payment model.Payment
	err := db.Where("order_id = ?", orderID).First(&payment).Error
	if err == nil {
		return &payment, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPaymentNotFound
	}

	return nil, err
}

func (p *Payment) GetByUserID(userID string, limit, offset int) ([]model.Payment, error) {
	var payments []model.Payment

	err := p.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (p *Payment) CountByUserID(userID string) (int, error) {
	var count int64

	err := p.db.Model(&model.Payment{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

func (p *Payment) UpdateStatusIfPending(ctx context.Context, orderID string, status model.PaymentStatus, meta model.GatewayMeta) (*model.Payment, bool, error) {
	db := GetTx(ctx, p.db)

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if meta.TransactionID != "" {
		updates["gateway_transaction_id"] = meta.TransactionID
	}
	if meta.PaymentMethod != "" {
		updates["payment_method"] = meta.PaymentMethod
	}
	if meta.RawResponse != "" {
		updates["gateway_response"] = meta.RawResponse
	}
	if status != model.PaymentStatusPending {
		updates["status"] = status
	}

	result := db.Model(&model.Payment{}).
		Where("order_id = ? AND status = ?", orderID, model.PaymentStatusPending).
		Updates(updates)
	if result.Error != nil {
		return nil, false, result.Error
	}

	transitioned := status != model.PaymentStatusPending && result.RowsAffected == 1

	payment, err := p.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}

	return payment, transitioned, nil
}

func (p *Payment) MarkCredited(ctx context.Context, orderID string, at time.Time) (bool, error) {
	db := GetTx(ctx, p.db)

	result := db.Model(&model.Payment{}).
		Where("order_id = ? AND status = ? AND credited_at IS NULL", orderID, model.PaymentStatusSuccess).
		Updates(map[string]interface{}{
			"credited_at": at,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (p *Payment) FindUncredited(limit int) ([]model.Payment, error) {
	var payments []model.Payment

	err := p.db.Where("status = ? AND credited_at IS NULL", model.PaymentStatusSuccess).
		Order("created_at ASC").
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}
