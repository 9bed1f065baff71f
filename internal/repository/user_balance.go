package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/prepkit/payment-service/internal/model"
	"gorm.io/gorm"
)

var ErrUserBalanceNotFound = errors.New("USER_BALANCE_NOT_FOUND")
var ErrUserBalanceExists = errors.New("USER_BALANCE_EXISTS")

type UserBalanceRepository interface {
	Create(ctx context.Context, ub *model.UserBalance) error
	FindByUserID(userID string) (model.UserBalance, error)
	// IncrementBalance adds delta to the stored balance as a single atomic
	// update, never a read-modify-write.
	IncrementBalance(ctx context.Context, userID string, delta int64) error
}

type userBalance struct {
	db *gorm.DB
}

func NewUserBalanceRepository(db *gorm.DB) UserBalanceRepository {
	return &userBalance{db: db}
}

func (r *userBalance) Create(ctx context.Context, ub *model.UserBalance) error {
	db := GetTx(ctx, r.db)

	err := db.Create(ub).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrUserBalanceExists
	}

	return err
}

func (r *userBalance) FindByUserID(userID string) (model.UserBalance, error) {
	var ub model.UserBalance

	err := r.db.Where("user_id = ?", userID).First(&ub).Error
	if err == nil {
		return ub, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.UserBalance{}, ErrUserBalanceNotFound
	}

	return model.UserBalance{}, err
}

func (r *userBalance) IncrementBalance(ctx context.Context, userID string, delta int64) error {
	db := GetTx(ctx, r.db)

	result := db.Model(&model.UserBalance{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", delta),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserBalanceNotFound
	}

	return nil
}
