package strata

import (
	"log/slog"

	"github.com/phanxgames/strata/internal/logging"
)

// SetLogger installs l as the logger for strata and its sub-packages.
// Passing nil silences logging again, which is the default.
//
// Layer and cache operations log at Debug, stale or misrouted buffers at
// Warn, and surfaces dropped without Destroy at Error.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the logger installed with SetLogger.
func Logger() *slog.Logger {
	return logging.Logger()
}
