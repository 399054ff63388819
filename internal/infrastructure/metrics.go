package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the application instruments
type Metrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	RunsTotal           metric.Int64Counter
	RunDuration         metric.Float64Histogram
	RowsRead            metric.Int64Counter
	ShipmentsClassified metric.Int64Counter
	CacheLookups        metric.Int64Counter
}

// CreateMetrics registers every instrument on meter
func CreateMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.RunsTotal, err = meter.Int64Counter(
		"packing_runs_total",
		metric.WithDescription("Total number of engine runs by outcome"),
	); err != nil {
		return nil, err
	}

	if m.RunDuration, err = meter.Float64Histogram(
		"packing_run_duration_seconds",
		metric.WithDescription("Engine run duration in seconds, including input parsing"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.RowsRead, err = meter.Int64Counter(
		"packing_rows_read_total",
		metric.WithDescription("Rows read from input tables"),
	); err != nil {
		return nil, err
	}

	if m.ShipmentsClassified, err = meter.Int64Counter(
		"packing_shipments_classified_total",
		metric.WithDescription("Shipments classified by order type and status"),
	); err != nil {
		return nil, err
	}

	if m.CacheLookups, err = meter.Int64Counter(
		"packing_cache_lookups_total",
		metric.WithDescription("Result cache lookups by outcome"),
	); err != nil {
		return nil, err
	}

	return &m, nil
}

// RecordRun records the outcome and duration of one engine run
func (m *Metrics) RecordRun(ctx context.Context, source string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("status", status),
	)
	m.RunsTotal.Add(ctx, 1, attrs)
	m.RunDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordRows counts rows read from one input table
func (m *Metrics) RecordRows(ctx context.Context, table string, rows int) {
	if m == nil {
		return
	}
	m.RowsRead.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("table", table)))
}

// RecordShipment counts one classified shipment
func (m *Metrics) RecordShipment(ctx context.Context, orderType, status string) {
	if m == nil {
		return
	}
	m.ShipmentsClassified.Add(ctx, 1, metric.WithAttributes(
		attribute.String("order_type", orderType),
		attribute.String("status", status),
	))
}

// RecordCacheLookup counts a result cache hit or miss
func (m *Metrics) RecordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
