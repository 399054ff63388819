// Package http implements the HTTP handlers of the packtrack service. Handlers
// are thin: they parse multipart uploads and form fields, validate them, call
// the services layer and render the outcome.
//
// # Routes
//
//	GET  /api/health           overall health
//	GET  /api/health/ready     readiness (503 when not ready)
//	GET  /api/health/live      liveness
//	GET  /api/version          build information
//	POST /api/packing/suggest  suggested column mapping for two uploads
//	POST /api/packing/process  run the engine, JSON result
//	POST /api/packing/export   run the engine, xlsx or csv download
//
// # Packing Uploads
//
// Packing routes take multipart/form-data with the files "scan" and
// "contents" and optionally "special" and "handling". Column overrides are
// sent as form fields (scan_date, scan_time, operator_name,
// scan_shipment_id, contents_shipment_id, item_code, quantity); omitted
// fields fall back to the suggested mapping. Rows can be filtered with
// date (YYYY-MM-DD), operators (repeated or comma-separated) and order_type.
//
// # Errors
//
// Every failure is written by errors.ErrorHandler as RFC 7807 problem
// details with Content-Type application/problem+json.
package http
