// Package config provides centralized configuration management for packtrack.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (config.yaml or configs/config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern PACKTRACK_<SECTION>_<FIELD>:
//
//	PACKTRACK_SERVER_PORT=8080
//	PACKTRACK_LOGGING_LEVEL=debug
//	PACKTRACK_RULES_SECONDS_PER_UNIT=30
//	PACKTRACK_RULES_SIMPLE_MIXED_MAX_QUANTITY=3
//	PACKTRACK_CACHE_TTL=15m
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests and one-shot CLI runs can use config.Default() directly.
package config
