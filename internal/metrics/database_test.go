package metrics_test

import (
	"testing"

	"github.com/prepkit/payment-service/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func newDryRunDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
	})
	assert.NoError(t, err)
	return db
}

func TestRegisterDatabaseMetrics(t *testing.T) {
	db := newDryRunDB(t)
	m := metrics.NewMetrics(prometheus.NewRegistry())

	assert.NoError(t, metrics.RegisterDatabaseMetrics(db, m, zap.NewNop()))

	var rows []map[string]interface{}
	db.Table("payments").Find(&rows)
	db.Table("payments").Find(&rows)
	db.Table("user_balances").Find(&rows)

	assert.Equal(t, 2.0,
		testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("query", "payments", "success")))
	assert.Equal(t, 1.0,
		testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("query", "user_balances", "success")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.DBQueryDuration))
}
