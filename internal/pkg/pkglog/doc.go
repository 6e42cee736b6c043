// Package pkglog configures the process-wide slog JSON logger and carries
// per-request log context (correlation ID, extra attributes) through
// context.Context so every record emitted with *Context variants includes it.
package pkglog
