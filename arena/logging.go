package arena

import (
	"io"
	"log/slog"
	"os"
)

// Runtime debug flag for allocation logging - controlled by HEAP_LOG_ALLOC env var.
var logAlloc = os.Getenv("HEAP_LOG_ALLOC") != ""

// defaultLogger is used by arenas created without Config.Logger.
var defaultLogger = newDefaultLogger()

func newDefaultLogger() *slog.Logger {
	if !logAlloc {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With("component", "arena")
}

// SetDefaultLogger replaces the logger used by arenas created afterwards
// without an explicit Config.Logger. Nil restores the environment default.
func SetDefaultLogger(l *slog.Logger) {
	if l == nil {
		l = newDefaultLogger()
	}
	defaultLogger = l
}
