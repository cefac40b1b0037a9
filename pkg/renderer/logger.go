package renderer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/df07/go-progressive-pathtracer/pkg/core"
)

// DefaultLogger implements core.Logger on top of slog
type DefaultLogger struct {
	logger *slog.Logger
}

// Printf logs the formatted message at info level
func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	dl.logger.Info(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// NewDefaultLogger creates a logger writing through the default slog handler
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{logger: slog.Default()}
}

// NewSlogLogger wraps an existing slog logger
func NewSlogLogger(logger *slog.Logger) core.Logger {
	return &DefaultLogger{logger: logger}
}
