package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"packtrack/internal/dataprocessing"
	apierrors "packtrack/internal/errors"
	"packtrack/internal/exporter"
	"packtrack/internal/files"
	"packtrack/internal/infrastructure"
	"packtrack/internal/services"
	"packtrack/internal/validation"
	"packtrack/pkg/contracts/domain"
)

type processOptions struct {
	scan, contents, special, handling string
	inDir                             string
	out                               string
	format                            string
	date                              string
	operators                         []string
	orderType                         string
	mapping                           dataprocessing.Mapping
}

func newProcessCmd(root *rootOptions) *cobra.Command {
	opts := &processOptions{}

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Classify a scan log against its contents log and export the report",
		Long: `Process joins the scan log with the contents log, computes packing
durations, classifies every shipment and writes the PACKING TRACKER report.

Inputs are given as files or discovered in a directory with --in, where file
names containing "scan", "content", "special" or "handling" select the role.
Explicit file flags win over discovered files.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.scan, "scan", "", "scan log (.xlsx or .csv)")
	f.StringVar(&opts.contents, "contents", "", "contents log (.xlsx or .csv)")
	f.StringVar(&opts.special, "special", "", "special-item list replacing the built-in one")
	f.StringVar(&opts.handling, "handling", "", "handling bonus list replacing the built-in one")
	f.StringVar(&opts.inDir, "in", "", "directory to discover input files in")
	f.StringVarP(&opts.out, "out", "o", "", "output file (default: PACKING TRACKER.<format> in the current directory)")
	f.StringVar(&opts.format, "format", "", "output format: xlsx or csv (default: from --out, else xlsx)")
	f.StringVar(&opts.date, "date", "", "keep only scans on this date (YYYY-MM-DD)")
	f.StringSliceVar(&opts.operators, "operator", nil, "keep only these operators (repeatable)")
	f.StringVar(&opts.orderType, "order-type", "", "keep only this order type, e.g. Simple-Mixed")

	f.StringVar(&opts.mapping.Scan.ScanDate, "map-scan-date", "", "scan log column holding the scan date")
	f.StringVar(&opts.mapping.Scan.ScanTime, "map-scan-time", "", "scan log column holding the scan time")
	f.StringVar(&opts.mapping.Scan.Operator, "map-operator", "", "scan log column holding the operator name")
	f.StringVar(&opts.mapping.Scan.ShipmentID, "map-scan-shipment", "", "scan log column holding the shipment id")
	f.StringVar(&opts.mapping.Contents.ShipmentID, "map-contents-shipment", "", "contents log column holding the shipment id")
	f.StringVar(&opts.mapping.Contents.ItemCode, "map-item", "", "contents log column holding the item code")
	f.StringVar(&opts.mapping.Contents.Quantity, "map-quantity", "", "contents log column holding the quantity")

	return cmd
}

func runProcess(cmd *cobra.Command, root *rootOptions, opts *processOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	logger, err := commandLogger(cmd, cfg)
	if err != nil {
		return err
	}

	validator := validation.NewFileValidator(logger)
	if err := opts.resolveInputs(validator); err != nil {
		return err
	}
	format, err := opts.outputFormat()
	if err != nil {
		return err
	}
	filter, err := opts.filter()
	if err != nil {
		return err
	}

	req := services.PackingRequest{
		Mapping: opts.mapping,
		Filter:  filter,
		Source:  "cli",
	}
	if req.Special, err = readUpload(opts.special); err != nil {
		return err
	}
	if req.Handling, err = readUpload(opts.handling); err != nil {
		return err
	}
	scan, err := readUpload(opts.scan)
	if err != nil {
		return err
	}
	contents, err := readUpload(opts.contents)
	if err != nil {
		return err
	}
	req.Scan, req.Contents = *scan, *contents

	telemetry := cfg.Telemetry
	telemetry.EnableMetrics = false
	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(telemetry), logger)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(ctx)
	}()

	svc := services.NewPackingService(cfg.Rules, nil, providers.Tracer, nil, logger)
	report, err := svc.Process(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := opts.out
	if out == "" {
		out = format.FileName()
	}
	if err := validator.ValidateOutputFile(out); err != nil {
		return err
	}
	if err := exporter.WriteFile(out, format, report.Export()); err != nil {
		return apierrors.NewStorageError("write report", err).WithContext("path", out)
	}

	printReport(cmd.OutOrStdout(), report, out)
	return nil
}

// resolveInputs fills missing input paths from --in and checks every input
func (o *processOptions) resolveInputs(validator *validation.FileValidator) error {
	if o.inDir != "" {
		if err := validator.ValidateInputDirectory(o.inDir); err != nil {
			return err
		}
		found, err := files.NewDiscovery("").DiscoverInputs(o.inDir)
		if o.scan == "" {
			o.scan = found.Scan
		}
		if o.contents == "" {
			o.contents = found.Contents
		}
		if o.special == "" {
			o.special = found.Special
		}
		if o.handling == "" {
			o.handling = found.Handling
		}
		if err != nil && (o.scan == "" || o.contents == "") {
			notFound := apierrors.NewNotFoundError("input files in " + o.inDir)
			notFound.Cause = err
			return notFound
		}
	}

	if o.scan == "" {
		return apierrors.NewAppValidationError("a scan file is required: use --scan or --in")
	}
	if o.contents == "" {
		return apierrors.NewAppValidationError("a contents file is required: use --contents or --in")
	}

	for _, path := range []string{o.scan, o.contents, o.special, o.handling} {
		if path == "" {
			continue
		}
		if err := validator.ValidateSpreadsheet(path); err != nil {
			return err
		}
	}
	return nil
}

func (o *processOptions) outputFormat() (exporter.Format, error) {
	if o.format != "" {
		return exporter.ParseFormat(o.format)
	}
	if strings.EqualFold(filepath.Ext(o.out), ".csv") {
		return exporter.FormatCSV, nil
	}
	return exporter.FormatXLSX, nil
}

func (o *processOptions) filter() (dataprocessing.Filter, error) {
	filter := dataprocessing.Filter{Operators: o.operators}
	if o.date != "" {
		date, err := time.Parse("2006-01-02", o.date)
		if err != nil {
			return filter, apierrors.NewAppValidationError(fmt.Sprintf("invalid --date %q: want YYYY-MM-DD", o.date))
		}
		filter.Date = date
	}
	if o.orderType != "" {
		orderType, ok := domain.ParseOrderType(o.orderType)
		if !ok {
			return filter, apierrors.NewAppValidationError(fmt.Sprintf("invalid --order-type %q", o.orderType))
		}
		filter.OrderType = orderType
	}
	return filter, nil
}

func printReport(w io.Writer, report *services.PackingReport, out string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	summary := report.Summary.Table()
	for _, row := range summary.Rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	_ = tw.Flush()

	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	fmt.Fprintf(w, "report written to %s\n", out)
}
