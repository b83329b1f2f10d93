package index

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricOperationsTotal   = "bstindex.operations.total"
	metricOperationDuration = "bstindex.operation.duration.seconds"
	metricErrorsTotal       = "bstindex.errors.total"
	metricQueryResults      = "bstindex.query.results"
	metricKeys              = "bstindex.keys"

	attrOp     = "op"
	attrStatus = "status"

	statusOK    = "ok"
	statusError = "error"
)

// Index operation names used as the "op" attribute.
const (
	OpInsert      = "insert"
	OpDelete      = "delete"
	OpDeleteValue = "delete_value"
	OpSearch      = "search"
	OpQuery       = "query"
	OpValidate    = "validate"
)

// durationBucketBoundaries covers 1µs to 1s: in-memory tree operations.
var durationBucketBoundaries = []float64{
	0.000001, 0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.1, 1,
}

// resultBucketBoundaries covers empty to large range scans.
var resultBucketBoundaries = []float64{0, 1, 5, 10, 50, 100, 500, 1000, 10000}

// Metrics holds the OTel instruments recorded by an [Index].
type Metrics struct {
	operationsTotal   metric.Int64Counter
	operationDuration metric.Float64Histogram
	errorsTotal       metric.Int64Counter
	queryResults      metric.Int64Histogram
	keys              metric.Int64UpDownCounter
}

// NewMetrics creates the index instruments from the given meter.
func NewMetrics(mt metric.Meter) (*Metrics, error) {
	opsTotal, err := mt.Int64Counter(metricOperationsTotal,
		metric.WithDescription("Total number of index operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOperationsTotal, err)
	}

	opDuration, err := mt.Float64Histogram(metricOperationDuration,
		metric.WithDescription("Index operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricOperationDuration, err)
	}

	errTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of failed index operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	results, err := mt.Int64Histogram(metricQueryResults,
		metric.WithDescription("Number of values returned by search and query"),
		metric.WithUnit("{value}"),
		metric.WithExplicitBucketBoundaries(resultBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricQueryResults, err)
	}

	keys, err := mt.Int64UpDownCounter(metricKeys,
		metric.WithDescription("Number of distinct keys held by the index"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricKeys, err)
	}

	return &Metrics{
		operationsTotal:   opsTotal,
		operationDuration: opDuration,
		errorsTotal:       errTotal,
		queryResults:      results,
		keys:              keys,
	}, nil
}

// RecordOperation records a completed operation with its outcome and duration.
func (m *Metrics) RecordOperation(ctx context.Context, op string, err error, duration time.Duration) {
	status := statusOK
	if err != nil {
		status = statusError
	}

	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	m.operationsTotal.Add(ctx, 1, attrs)
	m.operationDuration.Record(ctx, duration.Seconds(), attrs)

	if err != nil {
		m.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
	}
}

// RecordResults records how many values a search or query returned.
func (m *Metrics) RecordResults(ctx context.Context, op string, count int) {
	m.queryResults.Record(ctx, int64(count), metric.WithAttributes(attribute.String(attrOp, op)))
}

// AddKeys adjusts the distinct-key gauge by delta.
func (m *Metrics) AddKeys(ctx context.Context, delta int64) {
	m.keys.Add(ctx, delta)
}
