package logging

import (
	"fmt"
	"io"
	"maps"
	"strings"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Logger adapts a zerolog.Logger to the runtime.Logger interface used across the client.
type Logger struct {
	zl     zerolog.Logger
	fields map[string]interface{}
}

// New builds a Logger writing to w. level is a zerolog level name ("debug",
// "info", ...); format is FormatConsole or FormatJSON.
func New(w io.Writer, level, format string) (*Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	switch format {
	case "", FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case FormatJSON:
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}

	return &Logger{zl: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}, nil
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.zl.Debug().Msgf(format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.zl.Info().Msgf(format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.zl.Warn().Msgf(format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.zl.Error().Msgf(format, v...) }

// WithField returns a child logger carrying key=v on every entry.
func (l *Logger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

// WithFields returns a child logger carrying fields on every entry.
func (l *Logger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	maps.Copy(merged, l.fields)
	maps.Copy(merged, fields)
	return &Logger{
		zl:     l.zl.With().Fields(fields).Logger(),
		fields: merged,
	}
}

// Fields returns the fields attached to this logger.
func (l *Logger) Fields() map[string]interface{} {
	return maps.Clone(l.fields)
}

// Zerolog exposes the underlying logger for callers outside the runtime.Logger interface.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
