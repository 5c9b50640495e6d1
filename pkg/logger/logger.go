// Package logger configures the process-wide slog logger and derives
// request-scoped loggers from context values.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// ContextKey is the type of the context keys read by WithContext.
type ContextKey string

const (
	RequestIDKey    ContextKey = "request_id"
	ContractorIDKey ContextKey = "contractor_id"
	ContractIDKey   ContextKey = "contract_id"
	SignerRoleKey   ContextKey = "signer_role"
)

// contextKeys lists the keys copied onto every context logger, in output order.
var contextKeys = []ContextKey{RequestIDKey, ContractorIDKey, ContractIDKey, SignerRoleKey}

// Config holds logger configuration
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// Init installs the default logger writing to stdout.
func Init(cfg *Config) {
	InitWriter(cfg, os.Stdout)
}

// InitWriter installs the default logger writing to w.
func InitWriter(cfg *Config, w io.Writer) {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// ParseLevel maps a level name to its slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a copy of ctx carrying value under key.
func With(ctx context.Context, key ContextKey, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

// WithContext returns a logger with context values extracted
func WithContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	for _, key := range contextKeys {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			logger = logger.With(string(key), v)
		}
	}
	return logger
}

// Info logs at info level with context
func Info(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Info(msg, args...)
}

// Debug logs at debug level with context
func Debug(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Debug(msg, args...)
}

// Warn logs at warn level with context
func Warn(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Warn(msg, args...)
}

// Error logs at error level with context
func Error(ctx context.Context, msg string, args ...any) {
	WithContext(ctx).Error(msg, args...)
}
