package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dirsort/internal/config"
	"dirsort/internal/logging"
	"dirsort/internal/services"
)

func TestNewFromConfigWritesDailyJSONFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
	logger.Info("info message")

	matches, err := filepath.Glob(filepath.Join(cfg.Paths.LogDir, "dirsort-*.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one daily log file, got %v (%v)", matches, err)
	}
	content, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(content, &payload); err != nil {
		t.Fatalf("decode json log %q: %v", content, err)
	}
	if payload["msg"] != "info message" || payload["level"] != "info" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestNewFromConfigPrunesOldLogs(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Logging.RetentionDays = 7

	stale := filepath.Join(cfg.Paths.LogDir, "dirsort-20000101.log")
	fresh := logging.DailyLogPath(cfg.Paths.LogDir, time.Now().AddDate(0, 0, -1))
	unrelated := filepath.Join(cfg.Paths.LogDir, "notes.log")
	old := time.Now().AddDate(0, 0, -30)
	for _, path := range []string{stale, fresh, unrelated} {
		if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	for _, path := range []string{stale, unrelated} {
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatalf("chtimes %s: %v", path, err)
		}
	}

	if _, err := logging.NewFromConfig(&cfg); err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale log removed, stat err=%v", err)
	}
	for _, path := range []string{fresh, unrelated} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s kept: %v", path, err)
		}
	}
}

func TestDailyLogPath(t *testing.T) {
	day := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	if got := logging.DailyLogPath("/var/log/dirsort", day); got != "/var/log/dirsort/dirsort-20240309.log" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "logger_test.go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerPrefixesComponentAndPass(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "prefix.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithPass(services.WithRunID(context.Background(), "run-1"), "walk")
	component := logging.NewComponentLogger(logger, "organizer")
	logging.WithContext(ctx, component).Info("moved file", logging.String("target", "a b.txt"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	for _, fragment := range []string{"organizer/walk: moved file", "run_id=run-1", `target="a b.txt"`} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "rename failed", "move_failed")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(content, &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if payload["level"] != "warn" || payload["msg"] != "rename failed" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	for _, key := range []string{"ts", logging.FieldEventType, logging.FieldErrorHint, logging.FieldImpact} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("expected %q in payload %v", key, payload)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should not be enabled")
	}
	logging.WarnWithContext(nil, "ignored", "noop")
}

func TestCleanupOldLogsDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dirsort-20000101.log")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	old := time.Now().AddDate(-1, 0, 0)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if n := logging.CleanupOldLogs(nil, 0, logging.RetentionTarget{Dir: dir, Pattern: "dirsort-*.log"}); n != 0 {
		t.Fatalf("expected nothing removed, got %d", n)
	}
	if n := logging.CleanupOldLogs(nil, 1, logging.RetentionTarget{Dir: dir, Pattern: "dirsort-*.log", Exclude: []string{path}}); n != 0 {
		t.Fatalf("expected excluded file kept, got %d removed", n)
	}
	if n := logging.CleanupOldLogs(nil, 1, logging.RetentionTarget{Dir: dir, Pattern: "dirsort-*.log"}); n != 1 {
		t.Fatalf("expected one removal, got %d", n)
	}
}
