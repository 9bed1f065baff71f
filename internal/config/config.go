package config

import (
	"fmt"
	"time"

	"github.com/prepkit/payment-service/internal/catalog"
	"github.com/prepkit/payment-service/pkg/midtrans"
	"github.com/prepkit/payment-service/pkg/mq"
	"github.com/prepkit/payment-service/pkg/mysql"
	"github.com/spf13/viper"
)

type Config struct {
	API      API                   `mapstructure:"api"`
	Database mysql.Config          `mapstructure:"database"`
	Midtrans midtrans.Config       `mapstructure:"midtrans"`
	MQ       mq.Config             `mapstructure:"mq"`
	Sweep    Sweep                 `mapstructure:"sweep"`
	Catalog  []catalog.PackageSpec `mapstructure:"catalog"`
}

type API struct {
	Port string `mapstructure:"port"`
}

// Sweep controls the reconciliation sweep that completes credits for payments
// stuck between the success transition and the ledger write.
type Sweep struct {
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
}

func Load() (cfg *Config, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	err = viper.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Sweep.Interval <= 0 {
		cfg.Sweep.Interval = 30 * time.Second
	}
	if cfg.Sweep.BatchSize <= 0 {
		cfg.Sweep.BatchSize = 100
	}

	return cfg, nil
}
