// Package shared groups helpers used across packtrack packages. The testutil
// subpackage holds test-only helpers: a buffered slog handler for asserting
// on log output and CSV fixtures with a small scan and contents log.
package shared
