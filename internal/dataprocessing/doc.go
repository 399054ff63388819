// Package dataprocessing turns a packing-station scan log and a shipment
// contents log into per-shipment durations, order types and timeliness
// verdicts.
//
// # Pipeline
//
// The engine runs the same fixed sequence on every call:
//
//  1. Mapping validation: every canonical field must name a column
//  2. Durations: gap to the operator's next scan on the same day
//  3. Join: scans paired with contents lines on the trimmed shipment id
//  4. Aggregation: one summary per shipment
//  5. Classification: order type and OK/LATE status from Rules
//  6. Projection: verdicts broadcast back onto every joined row
//
// # Usage
//
//	mapping := dataprocessing.SuggestMapping(scans.Columns, contents.Columns)
//	engine := dataprocessing.NewEngine(dataprocessing.NewClassifier(dataprocessing.DefaultRules()))
//	result, err := engine.Run(dataprocessing.Input{Scans: scans, Contents: contents, Mapping: mapping})
//	if err != nil {
//	    var schemaErr *dataprocessing.SchemaError
//	    ...
//	}
//
// Filters and the daily summary operate on the projected records:
//
//	records, table := dataprocessing.Filter{Date: day}.Apply(result.Records, result.Table)
//	summary := dataprocessing.Summarize(records, day)
//
// # Error Handling
//
// Malformed dates, times, quantities and bonuses are absorbed as zero values.
// Only a mapping that does not fit the input tables is an error.
//
// The package performs no I/O and does not log. Reading workbooks lives in
// internal/files and writing reports in internal/exporter.
package dataprocessing
