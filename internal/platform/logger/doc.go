// Package logger provides structured logging functionality for the application.
//
// It builds on the standard library log/slog package: JSON output with a
// configurable level, error attributes passed through redact, and a request
// scoped logger carried in the context.
package logger
