// Package logger provides structured logging for RentDash.
//
// It wraps log/slog:
//
//   - logger.go: handler setup, dynamic level and the default logger
//   - context.go: loggers and request ids carried in a context
//   - redact.go: masking of credentials before they reach the output
//
// The CLI logs to stderr in text form at warn level unless --verbose or
// log.level says otherwise, so command output on stdout stays clean.
package logger
