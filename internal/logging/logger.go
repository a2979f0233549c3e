// Package logging defines the small structured-logging contract shared by
// the stores, remote adapters and console. Concrete backends wrap slog or
// anything else with a compatible key-value surface.
package logging

import "context"

// Logger is a context-aware structured logger. Variadic args are key-value
// pairs:
//
//	log.Info(ctx, "refresh failed", "collection", name, "err", err)
type Logger interface {
	// Debug logs internals useful while developing.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs normal operational events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but recoverable conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always carries the given key-value pairs.
	With(args ...any) Logger
}

// Nop returns a logger that discards everything, for callers that do not
// care about logs.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (nopLogger) With(...any) Logger                    { return nopLogger{} }
