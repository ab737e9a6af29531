// Package wfstlog wraps go.uber.org/zap for structured logging across the
// module, plus a rate-limited progress-callback helper.
package wfstlog

import "go.uber.org/zap"

// New returns a production zap.Logger (JSON output, info level) unless
// verbose is set, in which case it returns a development logger (console
// output, debug level).
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()

		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()

	return cfg.Build()
}

// Nop returns a logger that discards everything, for callers (tests,
// library use without an explicit logger) that don't want output.
func Nop() *zap.Logger { return zap.NewNop() }
