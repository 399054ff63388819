package http

import (
	"context"

	"packtrack/internal/services"
)

// PackingServiceInterface defines the packing operations used by the handler
type PackingServiceInterface interface {
	Suggest(ctx context.Context, scan, contents services.Upload) (*services.Suggestion, error)
	Process(ctx context.Context, req services.PackingRequest) (*services.PackingReport, error)
}
