package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sharehub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// WebhookDeliveries counts chat webhook deliveries by result.
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sharehub_webhook_deliveries_total",
		Help: "Total number of chat webhook deliveries by result",
	}, []string{"result"})

	// RSSItemsIngested counts posts created from feed items.
	RSSItemsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sharehub_rss_items_ingested_total",
		Help: "Total number of feed items ingested as posts",
	}, []string{"feed"})

	// RSSFetchErrors counts failed feed fetches.
	RSSFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sharehub_rss_fetch_errors_total",
		Help: "Total number of failed feed fetches",
	}, []string{"feed"})

	// CacheLookups counts cache-aside lookups by result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sharehub_cache_lookups_total",
		Help: "Total number of cache lookups by result",
	}, []string{"result"})
)

const queryStartKey = "sharehub:query_start"

// RegisterQueryMetrics installs GORM callbacks that observe DatabaseQueryLatency
// for every create, query, update, delete and raw statement.
func RegisterQueryMetrics(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			v, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			start, ok := v.(time.Time)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
		}
	}

	cb := db.Callback()
	steps := []struct {
		op       string
		register func(string, func(*gorm.DB)) error
		after    func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, s := range steps {
		if err := s.register("metrics:before_"+s.op, before); err != nil {
			return err
		}
		if err := s.after("metrics:after_"+s.op, after(s.op)); err != nil {
			return err
		}
	}
	return nil
}
