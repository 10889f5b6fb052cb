package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// contextKey is a typed key for context values to avoid collisions.
type contextKey string

const (
	// RequestIDKey is the context key for request ID.
	RequestIDKey contextKey = "request_id"
	// ClientIDKey is the context key for client ID (string representation).
	ClientIDKey contextKey = "client_id"
)

// Logger is a structured logger wrapper around slog
type Logger struct {
	*slog.Logger
}

// New creates a new structured logger. Production logs JSON at INFO,
// everything else logs text at DEBUG.
func New(env string, output io.Writer) *Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			// Strip directory prefix from source, keep only filename:line
			if a.Key == slog.SourceKey {
				if src, ok := a.Value.Any().(*slog.Source); ok {
					file := src.File
					if idx := strings.LastIndex(file, "/"); idx >= 0 {
						file = file[idx+1:]
					}
					a.Value = slog.StringValue(fmt.Sprintf("%s:%d", file, src.Line))
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(output, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// NewDefault creates a new logger with default settings (stdout)
func NewDefault(env string) *Logger {
	return New(env, os.Stdout)
}

// WithContext adds request-scoped fields from the context to the logger
func (l *Logger) WithContext(ctx context.Context) *Logger {
	result := l
	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		result = &Logger{Logger: result.With("request_id", requestID)}
	}
	if clientID := ctx.Value(ClientIDKey); clientID != nil {
		result = &Logger{Logger: result.With("client_id", clientID)}
	}
	return result
}

// WithField creates a new logger with an additional field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{Logger: l.With(key, value)}
}

// WithError creates a new logger with an error field
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.With("error", err.Error())}
}

// WithDuration creates a new logger with a duration_ms field
func (l *Logger) WithDuration(d time.Duration) *Logger {
	return &Logger{Logger: l.With("duration_ms", d.Milliseconds())}
}
