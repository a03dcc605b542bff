package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"collator/internal/config"
	"collator/internal/logging"
	"collator/internal/services"
)

func TestNewFromConfigWritesJSONLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("batch started", logging.String(logging.FieldBatchID, "b-1"))

	content, err := os.ReadFile(cfg.LogFilePath())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &entry); err != nil {
		t.Fatalf("log file line is not JSON: %v (%q)", err, content)
	}
	if entry["msg"] != "batch started" || entry["batch_id"] != "b-1" {
		t.Fatalf("unexpected log entry: %v", entry)
	}
}

func TestConsoleLoggerRendersSubject(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithJob(context.Background(), "HD163296", "007")
	ctx = services.WithStage(ctx, "discover")
	logger = logging.NewComponentLogger(logging.WithContext(ctx, logger), "collate")
	logger.Info("component located", logging.String("path", "/tmp/a b"))

	line := buf.String()
	for _, want := range []string{"INFO collate: component located", "[HD163296 job 007 discover]", `path="/tmp/a b"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no source location at info level, got %q", line)
	}
}

func TestConsoleLoggerHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "wall missing", "component_missing",
		logging.String(logging.FieldErrorHint, "rerun the wall model"),
	)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry[logging.FieldEventType] != "component_missing" {
		t.Fatalf("unexpected event type: %v", entry)
	}
	if entry[logging.FieldErrorHint] != "rerun the wall model" {
		t.Fatalf("expected caller hint preserved: %v", entry)
	}
	if entry[logging.FieldImpact] == nil {
		t.Fatalf("expected default impact: %v", entry)
	}
}

func TestContextFieldsOrder(t *testing.T) {
	ctx := services.WithBatchID(context.Background(), "b-9")
	ctx = services.WithJob(ctx, "TW_Hya", "0012")
	fields := logging.ContextFields(ctx)
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
	}
	if got := strings.Join(keys, ","); got != "batch_id,object,job_id" {
		t.Fatalf("unexpected context fields: %s", got)
	}
}

func TestNewCreatesLogDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "collator.log")
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Writer: &buf, FilePath: path})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hello")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}

func TestJSONLoggerNormalizesLevelAndTime(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.ErrorWithContext(logger, "write failed", "job_failed")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry["level"] != "error" {
		t.Fatalf("level = %v, want error", entry["level"])
	}
	ts, ok := entry["ts"].(string)
	if !ok || !strings.HasSuffix(ts, "Z") {
		t.Fatalf("expected UTC ts, got %v", entry)
	}
	if _, ok := entry["time"]; ok {
		t.Fatalf("unexpected time key: %v", entry)
	}
	if entry[logging.FieldErrorHint] == nil || entry[logging.FieldImpact] != nil {
		t.Fatalf("unexpected defaults: %v", entry)
	}
}
