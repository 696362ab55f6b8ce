// Package rlog wraps github.com/go-kratos/kratos/v2/log the same way the
// teacher wraps it in its own internal saferwall/pe/log subpackage: a caller
// builds a *Helper instead of importing a logging backend directly, and a nil
// Logger falls back to a level-filtered stdout logger. No other package of
// this module imports rlog.
package rlog

import (
	"os"

	"github.com/go-kratos/kratos/v2/log"
)

// Helper is the logging handle; no Pack, Dependencies or Diagnostics API
// takes one. It is never a package-level singleton (see spec.md
// §9's "no global mutable state" design note) — callers construct one and
// pass it explicitly.
type Helper = log.Helper

// Logger is the pluggable backend a caller may supply; front-ends own where
// it writes to (spec.md §1: logging/telemetry sinks are out of core scope).
type Logger = log.Logger

// New builds a Helper around logger, or a level-filtered stdout logger when
// logger is nil.
func New(logger Logger) *Helper {
	if logger == nil {
		logger = log.NewFilter(log.NewStdLogger(os.Stdout), log.FilterLevel(log.LevelError))
	}
	return log.NewHelper(logger)
}

// Discard is a Helper that drops everything, useful for tests and for
// callers that don't want the default stdout fallback.
func Discard() *Helper {
	return log.NewHelper(log.NewFilter(log.NewStdLogger(discardWriter{}), log.FilterLevel(log.LevelFatal)))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
