package metrics

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const queryStartKey = "metrics:query_start"

const slowQueryThreshold = 100 * time.Millisecond

type dbObserver struct {
	metrics *Metrics
	logger  *zap.Logger
}

// RegisterDatabaseMetrics instruments every operation on the connection with
// the query counter and duration histogram. Register once at startup, before
// the connection serves traffic.
func RegisterDatabaseMetrics(db *gorm.DB, m *Metrics, logger *zap.Logger) error {
	o := &dbObserver{metrics: m, logger: logger}
	cb := db.Callback()

	return errors.Join(
		cb.Create().Before("gorm:create").Register("metrics:before_create", o.start),
		cb.Create().After("gorm:create").Register("metrics:after_create", o.finish("create")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", o.start),
		cb.Query().After("gorm:query").Register("metrics:after_query", o.finish("query")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", o.start),
		cb.Update().After("gorm:update").Register("metrics:after_update", o.finish("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", o.start),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", o.finish("delete")),
		cb.Row().Before("gorm:row").Register("metrics:before_row", o.start),
		cb.Row().After("gorm:row").Register("metrics:after_row", o.finish("row")),
		cb.Raw().Before("gorm:raw").Register("metrics:before_raw", o.start),
		cb.Raw().After("gorm:raw").Register("metrics:after_raw", o.finish("raw")),
	)
}

func (o *dbObserver) start(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (o *dbObserver) finish(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}

		duration := time.Since(v.(time.Time))

		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}

		status := "success"
		if db.Error != nil {
			status = "error"
			if errors.Is(db.Error, gorm.ErrRecordNotFound) {
				status = "not_found"
			}
		}

		o.metrics.RecordDBQuery(operation, table, status, duration)

		if duration > slowQueryThreshold {
			o.logger.Warn("Slow database query",
				zap.String("operation", operation),
				zap.String("table", table),
				zap.String("status", status),
				zap.Duration("duration", duration),
			)
		}
	}
}
