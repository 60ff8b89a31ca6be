package obslog

import (
    "encoding/json"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

func TestOptionsFromEnv(t *testing.T) {
    t.Setenv("LOG_LEVEL", "warning")
    t.Setenv("LOG_FORMAT", "JSON")
    t.Setenv("LOG_TO_FILE", "false")
    t.Setenv("LOG_TO_CONSOLE", "")
    opts := OptionsFromEnv()
    if opts.Level != zapcore.WarnLevel || opts.Format != "json" || opts.File != "" || !opts.Console {
        t.Fatalf("unexpected options %+v", opts)
    }
    t.Setenv("LOG_TO_FILE", "true")
    t.Setenv("LOG_LEVEL", "nonsense")
    opts = OptionsFromEnv()
    if opts.File != filepath.Join("logs", "tracker.log") || opts.Level != zapcore.InfoLevel { t.Fatalf("unexpected defaults %+v", opts) }
}

func TestFileSinkWritesJSON(t *testing.T) {
    path := filepath.Join(t.TempDir(), "nested", "tracker.log")
    logger, err := New(Options{Level: zapcore.DebugLevel, Format: "json", File: path})
    if err != nil { t.Fatalf("New: %v", err) }
    logger.Info("tracker_move", zap.String("move", "e2e4"))
    _ = logger.Sync()

    raw, err := os.ReadFile(path)
    if err != nil { t.Fatalf("read log: %v", err) }
    line := strings.TrimSpace(string(raw))
    var entry map[string]any
    if err := json.Unmarshal([]byte(line), &entry); err != nil { t.Fatalf("log line is not json: %q", line) }
    if entry["msg"] != "tracker_move" || entry["move"] != "e2e4" || entry["level"] != "info" { t.Fatalf("unexpected entry %v", entry) }
}

func TestGlobalLoggerDefaultsToNop(t *testing.T) {
    if L() == nil { t.Fatalf("global logger must never be nil") }
    L().Info("dropped")
}
