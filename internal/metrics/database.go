package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jobly",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "SQL 语句耗时分布（秒）。",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"statement"},
	)

	queryFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobly",
			Subsystem: "db",
			Name:      "queries_failed_total",
			Help:      "执行失败的 SQL 语句总数。",
		},
		[]string{"statement"},
	)

	queriesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobly",
			Subsystem: "db",
			Name:      "queries_in_flight",
			Help:      "当前正在执行的 SQL 语句数量。",
		},
	)
)

// QueryStarted 在语句发出时调用，与 ObserveQuery 成对出现。
func QueryStarted() {
	queriesInFlight.Inc()
}

// ObserveQuery 记录一条语句的耗时与结果，按语句动词（SELECT、INSERT…）聚合，
// 避免把完整 SQL 作为标签。
func ObserveQuery(sql string, latency time.Duration, err error) {
	queriesInFlight.Dec()

	statement := StatementVerb(sql)
	queryDuration.WithLabelValues(statement).Observe(latency.Seconds())
	if err != nil {
		queryFailedTotal.WithLabelValues(statement).Inc()
	}
}

// StatementVerb returns the upper-cased first keyword of sql, or "OTHER".
func StatementVerb(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "OTHER"
	}
	switch verb := strings.ToUpper(fields[0]); verb {
	case "SELECT", "INSERT", "UPDATE", "DELETE", "BEGIN", "COMMIT", "ROLLBACK", "CREATE":
		return verb
	default:
		return "OTHER"
	}
}
