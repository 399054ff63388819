// Package services implements the business logic layer of packtrack. It sits
// between the HTTP handlers and CLI commands on one side and the packing
// engine on the other.
//
// # Available Services
//
//	- PackingService: reads the uploaded workbooks, runs the engine, filters
//	  and summarizes the result
//	- HealthService: health, readiness and liveness checks
//
// # Packing Runs
//
// Every call to PackingService.Process gets a run id, stored in the context
// so that log lines carry it. Input files are parsed concurrently. Engine
// results are memoized in a ResultCache keyed by a hash of the raw input
// bytes, the column mapping and the classification constants; filtering and
// summarizing always run on the cached result.
//
//	svc := services.NewPackingService(cfg.Rules, cache, tracer, metrics, logger)
//	report, err := svc.Process(ctx, services.PackingRequest{
//	    Scan:     services.Upload{Name: "scan.xlsx", Data: scanBytes},
//	    Contents: services.Upload{Name: "contents.xlsx", Data: contentsBytes},
//	})
//
// # Error Handling
//
// Errors are *errors.AppError values from internal/errors: schema errors for
// mappings that do not fit the tables, unsupported-format errors for files
// that are neither xlsx nor csv, and parsing errors for unreadable files.
package services
