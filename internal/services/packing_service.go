package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"packtrack/internal/config"
	"packtrack/internal/dataprocessing"
	apierrors "packtrack/internal/errors"
	"packtrack/internal/exporter"
	"packtrack/internal/files"
	"packtrack/internal/infrastructure"
	"packtrack/pkg/contracts/domain"
)

// Warnings attached to a report
const (
	WarningCountMismatch = "shipment count does not match OK + LATE statuses"
	WarningEmptyJoin     = "no scanned shipment matched the contents log"
	WarningNoRows        = "no rows matched the filter"
)

// Upload is one input file
type Upload struct {
	Name string
	Data []byte
}

// PackingRequest is one packing run. Special and Handling are optional and
// replace the built-in lookup tables when present. Non-blank Mapping fields
// override the suggested columns.
type PackingRequest struct {
	Scan     Upload
	Contents Upload
	Special  *Upload
	Handling *Upload
	Mapping  dataprocessing.Mapping
	Filter   dataprocessing.Filter
	// Source labels the run in metrics, e.g. "http" or "cli"
	Source string
}

// PackingReport is the outcome of a run after filtering
type PackingReport struct {
	RunID    string                 `json:"run_id"`
	Mapping  dataprocessing.Mapping `json:"mapping"`
	Records  []domain.JoinedRecord  `json:"-"`
	Table    domain.Table           `json:"table"`
	Summary  dataprocessing.Summary `json:"summary"`
	Warnings []string               `json:"warnings"`
	Cached   bool                   `json:"cached"`
	Result   *dataprocessing.Result `json:"-"`
}

// Shipments returns the number of distinct shipments after filtering
func (r *PackingReport) Shipments() int {
	return r.Summary.TotalShipments
}

// Export converts the report for the exporter
func (r *PackingReport) Export() exporter.Report {
	return exporter.Report{
		Table:     r.Table,
		Summary:   r.Summary.Table(),
		Shipments: r.Shipments(),
	}
}

// Suggestion is the proposed mapping together with the headers it was
// chosen from
type Suggestion struct {
	Mapping         dataprocessing.Mapping `json:"mapping"`
	ScanColumns     []string               `json:"scan_columns"`
	ContentsColumns []string               `json:"contents_columns"`
}

// PackingService runs the packing engine over uploaded workbooks
type PackingService struct {
	rules   config.RulesConfig
	cache   *ResultCache
	tracer  trace.Tracer
	metrics *infrastructure.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewPackingService creates the service. cache, tracer and metrics may be nil.
func NewPackingService(rules config.RulesConfig, cache *ResultCache, tracer trace.Tracer, metrics *infrastructure.Metrics, logger *slog.Logger) *PackingService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(infrastructure.ServiceName)
	}
	return &PackingService{
		rules:   rules,
		cache:   cache,
		tracer:  tracer,
		metrics: metrics,
		logger:  infrastructure.WithComponent(logger, "packing_service"),
		now:     time.Now,
	}
}

// CacheStats returns the result cache statistics, or nil without a cache
func (s *PackingService) CacheStats() *CacheStats {
	if s.cache == nil {
		return nil
	}
	stats := s.cache.Stats()
	return &stats
}

// Suggest reads both logs and proposes a column mapping
func (s *PackingService) Suggest(ctx context.Context, scan, contents Upload) (*Suggestion, error) {
	ctx, span := s.tracer.Start(ctx, "packing.suggest")
	defer span.End()

	tables, err := s.readTables(ctx, scan, contents, nil, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &Suggestion{
		Mapping:         dataprocessing.SuggestMapping(tables.scan.Columns, tables.contents.Columns),
		ScanColumns:     tables.scan.Columns,
		ContentsColumns: tables.contents.Columns,
	}, nil
}

// Process runs the engine over the request inputs, then filters and
// summarizes the result
func (s *PackingService) Process(ctx context.Context, req PackingRequest) (report *PackingReport, err error) {
	start := s.now()
	runID := uuid.New().String()
	ctx = infrastructure.WithRunID(ctx, runID)

	source := req.Source
	if source == "" {
		source = "api"
	}

	ctx, span := s.tracer.Start(ctx, "packing.process",
		trace.WithAttributes(
			attribute.String("packing.run_id", runID),
			attribute.String("packing.source", source),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		s.metrics.RecordRun(ctx, source, s.now().Sub(start), err)
	}()

	s.logger.InfoContext(ctx, "Packing run started",
		slog.String("scan_file", req.Scan.Name),
		slog.String("contents_file", req.Contents.Name),
		slog.Bool("special_file", req.Special != nil),
		slog.Bool("handling_file", req.Handling != nil))

	tables, err := s.readTables(ctx, req.Scan, req.Contents, req.Special, req.Handling)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read inputs", slog.String("error", err.Error()))
		return nil, err
	}

	mapping := dataprocessing.SuggestMapping(tables.scan.Columns, tables.contents.Columns).Merge(req.Mapping)
	rules := s.buildRules(tables)

	result, cached, err := s.run(ctx, req, mapping, rules, tables)
	if err != nil {
		return nil, err
	}

	records, table := req.Filter.Apply(result.Records, result.Table)

	date := req.Filter.Date
	if date.IsZero() {
		date = dataprocessing.LatestScanDate(records)
	}
	if date.IsZero() {
		date = s.now()
	}
	summary := dataprocessing.Summarize(records, date)

	report = &PackingReport{
		RunID:    runID,
		Mapping:  mapping,
		Records:  records,
		Table:    table,
		Summary:  summary,
		Warnings: s.warnings(ctx, result, records, summary, req.Filter),
		Cached:   cached,
		Result:   result,
	}

	span.SetAttributes(
		attribute.Int("packing.shipments", summary.TotalShipments),
		attribute.Int("packing.rows", table.Len()),
		attribute.Bool("packing.cached", cached),
	)

	s.logger.InfoContext(ctx, "Packing run completed",
		slog.Int("shipments", summary.TotalShipments),
		slog.Int("rows", table.Len()),
		slog.Int("ok", summary.OK),
		slog.Int("late", summary.Late),
		slog.Bool("cached", cached),
		slog.Duration("duration", s.now().Sub(start)))

	return report, nil
}

// run returns the engine result from the cache or computes it
func (s *PackingService) run(ctx context.Context, req PackingRequest, mapping dataprocessing.Mapping, rules dataprocessing.Rules, tables *inputTables) (*dataprocessing.Result, bool, error) {
	var key CacheKey
	if s.cache != nil {
		key = NewCacheKey(mapping, rules, req.Scan.Data, req.Contents.Data, uploadData(req.Special), uploadData(req.Handling))
		if result, ok := s.cache.Get(key); ok {
			s.metrics.RecordCacheLookup(ctx, true)
			s.logger.DebugContext(ctx, "Result served from cache")
			return result, true, nil
		}
		s.metrics.RecordCacheLookup(ctx, false)
	}

	_, span := s.tracer.Start(ctx, "packing.engine")
	defer span.End()

	result, err := dataprocessing.NewEngine(dataprocessing.NewClassifier(rules)).Run(dataprocessing.Input{
		Scans:    tables.scan,
		Contents: tables.contents,
		Mapping:  mapping,
	})
	if err != nil {
		var schemaErr *dataprocessing.SchemaError
		if errors.As(err, &schemaErr) {
			return nil, false, apierrors.NewSchemaError(schemaErr.Source, schemaErr.Field, schemaErr.Column, err)
		}
		return nil, false, fmt.Errorf("packing engine failed: %w", err)
	}

	for _, summary := range result.Summaries {
		s.metrics.RecordShipment(ctx, string(summary.OrderType), string(summary.Status))
	}

	if s.cache != nil {
		s.cache.Set(key, result)
	}
	return result, false, nil
}

func (s *PackingService) buildRules(tables *inputTables) dataprocessing.Rules {
	rules := dataprocessing.DefaultRules()
	rules.SecondsPerUnit = s.rules.SecondsPerUnit
	rules.SimpleMixedMaxQuantity = s.rules.SimpleMixedMaxQuantity

	var special map[string]struct{}
	var bonuses map[string]float64
	if tables.special != nil {
		special = dataprocessing.SpecialItemsFromTable(*tables.special)
	}
	if tables.handling != nil {
		bonuses = dataprocessing.HandlingBonusesFromTable(*tables.handling)
	}
	return rules.WithLookups(special, bonuses)
}

func (s *PackingService) warnings(ctx context.Context, result *dataprocessing.Result, records []domain.JoinedRecord, summary dataprocessing.Summary, filter dataprocessing.Filter) []string {
	warnings := []string{}

	switch {
	case result.Shipments() == 0:
		warnings = append(warnings, WarningEmptyJoin)
	case len(records) == 0 && !filter.IsZero():
		warnings = append(warnings, WarningNoRows)
	}

	if !summary.Consistent() {
		warnings = append(warnings, WarningCountMismatch)
		s.logger.WarnContext(ctx, "Summary counts are inconsistent",
			slog.Int("total_shipments", summary.TotalShipments),
			slog.Int("ok", summary.OK),
			slog.Int("late", summary.Late))
	}

	return warnings
}

type inputTables struct {
	scan     domain.Table
	contents domain.Table
	special  *domain.Table
	handling *domain.Table
}

// readTables parses the uploads concurrently
func (s *PackingService) readTables(ctx context.Context, scan, contents Upload, special, handling *Upload) (*inputTables, error) {
	tables := &inputTables{}
	g, ctx := errgroup.WithContext(ctx)

	read := func(table string, u Upload, dst *domain.Table) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := files.ReadWorkbook(bytes.NewReader(u.Data), u.Name)
			if err != nil {
				if errors.Is(err, files.ErrUnsupportedFormat) {
					return apierrors.NewUnsupportedFormatError(u.Name, err)
				}
				return apierrors.NewParsingError(fmt.Sprintf("failed to read %s file", table), err).
					WithContext("file", u.Name)
			}
			*dst = t
			s.metrics.RecordRows(ctx, table, t.Len())
			return nil
		})
	}

	read("scan", scan, &tables.scan)
	read("contents", contents, &tables.contents)
	if special != nil {
		tables.special = &domain.Table{}
		read("special", *special, tables.special)
	}
	if handling != nil {
		tables.handling = &domain.Table{}
		read("handling", *handling, tables.handling)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

func uploadData(u *Upload) []byte {
	if u == nil {
		return nil
	}
	return u.Data
}
