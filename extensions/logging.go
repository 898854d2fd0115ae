package extensions

import (
	"context"
	"log/slog"
	"time"

	load "github.com/loadfn/load-go"
)

// LoggingExtension logs all loader operations
type LoggingExtension struct {
	load.BaseExtension
	logger *slog.Logger
}

// NewLoggingExtension creates a new logging extension.
// logHandler: slog.Handler for output (use NewSilentHandler in tests)
func NewLoggingExtension(logHandler slog.Handler) *LoggingExtension {
	return &LoggingExtension{
		BaseExtension: load.NewBaseExtension("logging"),
		logger:        slog.New(logHandler),
	}
}

// Wrap logs each operation with its outcome and duration
func (e *LoggingExtension) Wrap(ctx context.Context, next func() (any, error), op *load.Operation) (any, error) {
	start := time.Now()
	result, err := next()
	duration := time.Since(start)

	attrs := []any{
		"kind", string(op.Kind),
		"locator", op.Locator,
		"id", op.ID,
		"duration", duration,
	}
	if op.Group != "" {
		attrs = append(attrs, "group", op.Group)
	}

	if err != nil {
		e.logger.Error("loader operation failed", append(attrs, "error", err)...)
	} else {
		e.logger.Debug("loader operation", attrs...)
	}

	return result, err
}
