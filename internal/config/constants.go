package config

import "time"

// Application constants
const (
	AppName    = "packtrack"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. PACKTRACK_SERVER_PORT
	EnvPrefix = "PACKTRACK"

	DefaultLogFile = "logs/packtrack.log"

	// Classification rule defaults
	DefaultSecondsPerUnit         = 30.0
	DefaultSimpleMixedMaxQuantity = 3

	// Upload and request limits
	DefaultMaxUploadBytes = 64 << 20 // 64MB across all uploaded files
	DefaultRequestTimeout = 2 * time.Minute

	// Result cache
	DefaultCacheTTL     = 15 * time.Minute
	DefaultCacheEntries = 32
)
