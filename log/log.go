// Package log provides the key-value structured logger used throughout
// this module. It mirrors the call convention go-ethereum-derived code
// bases use (Info/Warn/Error/Debug/Trace taking a message followed by
// alternating key-value pairs), backed by the standard library's
// log/slog for formatting and dispatch. Every record is tagged with its
// call site via github.com/go-stack/stack, the same caller-frame
// capture a log15-derived logger would do.
package log

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-stack/stack"
)

var root = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelDebug,
}))

// SetHandler swaps the backing slog handler, e.g. to redirect logs to a
// file, change the format, or silence or capture logs.
func SetHandler(h slog.Handler) {
	root = slog.New(h)
}

// emit logs msg at level, prefixing the key-value pairs with the
// "caller" frame that invoked the public Trace/Debug/.../Error
// function (two frames up: this function's caller, then that
// caller's caller).
func emit(level slog.Level, msg string, kv ...any) {
	call := stack.Caller(2)
	args := make([]any, 0, len(kv)+2)
	args = append(args, "caller", call)
	args = append(args, kv...)
	root.Log(context.Background(), level, msg, args...)
}

// Trace logs one step below Debug, at slog.LevelDebug-4 (slog's named
// levels are spaced four apart). The default handler's minimum level is
// Debug, so Trace records are discarded unless SetHandler installs a
// handler with a lower minimum level.
func Trace(msg string, kv ...any) {
	emit(slog.LevelDebug-4, msg, kv...)
}

// Debug logs a low-priority diagnostic message.
func Debug(msg string, kv ...any) {
	emit(slog.LevelDebug, msg, kv...)
}

// Info logs a routine, user-facing event.
func Info(msg string, kv ...any) {
	emit(slog.LevelInfo, msg, kv...)
}

// Warn logs a recoverable anomaly such as a dropped message or a
// rejected signature.
func Warn(msg string, kv ...any) {
	emit(slog.LevelWarn, msg, kv...)
}

// Error logs a failure that degrades but does not stop the process.
func Error(msg string, kv ...any) {
	emit(slog.LevelError, msg, kv...)
}
