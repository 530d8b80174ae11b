// Package logging builds the zap logger shared by the server and CLI.
package logging

import (
	"context"
	"strings"

	"github.com/bwise1/media_ranker/util/tracing"
	"github.com/bwise1/media_ranker/util/values"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FieldRequestID     = "request_id"
	FieldRequestSource = "request_source"
)

// Options configures New. Empty output paths mean stderr.
type Options struct {
	Format           string
	Level            string
	OutputPaths      []string
	ErrorOutputPaths []string
}

// New builds a console or JSON logger. Unknown levels fall back to info.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(strings.TrimSpace(opts.Level)); err == nil {
		level = parsed
	}

	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		cfg.Development = false
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableCaller = level > zapcore.DebugLevel
	cfg.DisableStacktrace = level > zapcore.DebugLevel

	cfg.OutputPaths = []string{"stderr"}
	if len(opts.OutputPaths) > 0 {
		cfg.OutputPaths = opts.OutputPaths
	}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if len(opts.ErrorOutputPaths) > 0 {
		cfg.ErrorOutputPaths = opts.ErrorOutputPaths
	}

	return cfg.Build()
}

// WithContext tags logger with the request tracing fields carried by ctx.
func WithContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	tc, ok := tracing.From(ctx)
	if !ok {
		return logger
	}
	return logger.With(
		zap.String(FieldRequestID, tc.RequestID),
		zap.String(FieldRequestSource, tc.RequestSource),
	)
}

// Into stores logger on ctx.
func Into(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, values.ContextLoggerKey, logger)
}

// From returns the logger stored on ctx, or a no-op logger.
func From(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(values.ContextLoggerKey).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}
