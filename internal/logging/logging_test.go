package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bwise1/media_ranker/internal/logging"
	"github.com/bwise1/media_ranker/util/tracing"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "info.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller")
	logger.Sync() //nolint:errcheck

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information, got %q", content)
	}
}

func TestJSONLoggerWritesFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")

	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("json message", zap.String("k", "v"))
	logger.Sync() //nolint:errcheck

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"k":"v"`) {
		t.Fatalf("expected json field in output, got %q", content)
	}
}

func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "level.log")

	logger, err := logging.New(logging.Options{Level: "loud", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	logger.Sync() //nolint:errcheck

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "hidden") || !strings.Contains(string(content), "shown") {
		t.Fatalf("unexpected output for default level: %q", content)
	}
}

func TestWithContextAddsTracingFields(t *testing.T) {
	ctx := tracing.With(context.Background(), tracing.Context{RequestID: "req-1", RequestSource: "web"})

	core, observed := observer.New(zap.InfoLevel)
	logging.WithContext(ctx, zap.New(core)).Info("contextual log")

	records := observed.All()
	if len(records) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(records))
	}
	fields := records[0].ContextMap()
	if fields[logging.FieldRequestID] != "req-1" || fields[logging.FieldRequestSource] != "web" {
		t.Fatalf("missing tracing fields: %#v", fields)
	}
}

func TestWithContextWithoutTracing(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	logging.WithContext(context.Background(), zap.New(core)).Info("plain")

	if got := len(observed.All()[0].Context); got != 0 {
		t.Fatalf("expected no fields, got %d", got)
	}
}

func TestFromFallsBackToNop(t *testing.T) {
	if logging.From(context.Background()) == nil {
		t.Fatal("expected a logger")
	}

	core, observed := observer.New(zap.InfoLevel)
	ctx := logging.Into(context.Background(), zap.New(core))
	logging.From(ctx).Info("stored")
	if observed.Len() != 1 {
		t.Fatalf("expected the stored logger to be used")
	}
}
