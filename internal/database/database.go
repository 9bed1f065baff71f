package database

import (
	"context"

	"github.com/prepkit/payment-service/internal/config"
	"github.com/prepkit/payment-service/pkg/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewConnection(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return mysql.NewConnection(context.Background(), cfg.Database, logger)
}
