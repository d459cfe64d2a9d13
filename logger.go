package glsurface

import (
	"log/slog"

	"github.com/gogpu/glsurface/internal/logger"
)

// SetLogger configures the logger for glsurface and all its sub-packages.
// By default, glsurface produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by glsurface:
//   - [slog.LevelDebug]: internal diagnostics (phase buffers, submissions, skipped commands)
//   - [slog.LevelInfo]: lifecycle events (backend selected, context restored, device opened)
//   - [slog.LevelWarn]: non-fatal issues (resource fetch failures, server fallback)
//
// Example:
//
//	// Enable info-level logging to stderr:
//	glsurface.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	glsurface.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logger.Set(l)
}

// Logger returns the current logger used by glsurface.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logger.Get()
}
