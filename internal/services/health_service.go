package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"packtrack/internal/dataprocessing"
	"packtrack/internal/infrastructure"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	packing   *PackingService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// NewHealthService creates a new health service. packing may be nil, in
// which case the service reports not ready.
func NewHealthService(version, buildTime string, packing *PackingService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger = infrastructure.WithComponent(logger, "health_service")
	logger.Debug("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		packing:   packing,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck returns readiness status
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]interface{}),
	}

	status.Services["engine"] = hs.checkEngineHealth()
	status.Services["cache"] = hs.checkCacheHealth()

	for name, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			hs.logger.WarnContext(ctx, "Service not ready",
				slog.String("service", name),
				slog.String("message", sh.Message))
		}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":      hs.version,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}

	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}

	return result
}

// checkEngineHealth verifies the configured rules produce a usable classifier
func (hs *HealthService) checkEngineHealth() ServiceHealth {
	if hs.packing == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "packing service not initialized",
		}
	}

	rules := dataprocessing.NewClassifier(hs.packing.buildRules(&inputTables{})).Rules()
	return ServiceHealth{
		Status:  "ready",
		Message: "packing engine is healthy",
		Details: map[string]interface{}{
			"seconds_per_unit":          rules.SecondsPerUnit,
			"simple_mixed_max_quantity": rules.SimpleMixedMaxQuantity,
			"special_items":             len(rules.SpecialItems),
			"handling_bonuses":          len(rules.HandlingBonuses),
		},
	}
}

// checkCacheHealth reports cache statistics; a disabled cache is still ready
func (hs *HealthService) checkCacheHealth() ServiceHealth {
	if hs.packing == nil || hs.packing.CacheStats() == nil {
		return ServiceHealth{
			Status:  "ready",
			Message: "result cache disabled",
		}
	}

	return ServiceHealth{
		Status:  "ready",
		Message: "result cache is healthy",
		Details: hs.packing.CacheStats(),
	}
}
