package utils

import (
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

// NewSlogBridge adapts a zap logger into an slog logger so libraries that
// log through the default slog logger share the zap output stream.
func NewSlogBridge(logger *zap.Logger) *slog.Logger {
	return slog.New(zapslog.NewHandler(logger.Core()))
}
