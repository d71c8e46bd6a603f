package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"jobly/internal/metrics"
)

type queryStartKey struct{}

type queryStart struct {
	sql   string
	nargs int
	at    time.Time
}

// QueryTracer logs every statement pgx executes through slog and feeds the
// db_* Prometheus metrics. Successful statements go to Debug, failures to Warn.
// Arguments are never logged.
type QueryTracer struct {
	logger *slog.Logger
}

func NewQueryTracer(logger *slog.Logger) *QueryTracer {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryTracer{logger: logger}
}

func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	metrics.QueryStarted()
	return context.WithValue(ctx, queryStartKey{}, queryStart{
		sql:   data.SQL,
		nargs: len(data.Args),
		at:    time.Now(),
	})
}

func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	latency := time.Since(start.at)
	metrics.ObserveQuery(start.sql, latency, data.Err)

	attrs := []any{
		slog.String("sql", start.sql),
		slog.Int("args", start.nargs),
		slog.Duration("latency", latency),
	}
	if data.Err != nil {
		t.logger.WarnContext(ctx, "query failed", append(attrs, slog.Any("error", data.Err))...)
		return
	}
	t.logger.DebugContext(ctx, "query", append(attrs, slog.String("tag", data.CommandTag.String()))...)
}
