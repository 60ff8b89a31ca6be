package msgcat

import (
    "os"
    "path/filepath"
    "strings"
    "testing"
)

func TestNew_EmbeddedDefaults(t *testing.T) {
    c, err := New("")
    if err != nil { t.Fatalf("New: %v", err) }
    for _, key := range []string{"tracker.start", "tracker.resume", "tracker.move", "tracker.check", "tracker.finished", "tracker.reset", "tracker.failure"} {
        if !c.Has(key) { t.Fatalf("missing default key %s", key) }
    }
    out, err := c.Render("tracker.move", map[string]any{"Number": "1. ", "SAN": "e4", "UCI": "e2e4", "Resynced": false})
    if err != nil { t.Fatalf("Render: %v", err) }
    if out != "1. e4 (e2e4)" { t.Fatalf("unexpected render: %q", out) }
}

func TestRender_MissingField(t *testing.T) {
    c, err := New("")
    if err != nil { t.Fatalf("New: %v", err) }
    if _, err := c.Render("tracker.failure", map[string]any{"Code": "x"}); err == nil {
        t.Fatalf("expected error for missing field")
    }
    if _, err := c.Render("nope", nil); err == nil { t.Fatalf("expected error for unknown key") }
}

func TestNew_OverrideDir(t *testing.T) {
    dir := t.TempDir()
    if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("tracker:\n  reset: \"cleared\"\n"), 0o644); err != nil { t.Fatalf("write: %v", err) }
    c, err := New(dir)
    if err != nil { t.Fatalf("New: %v", err) }
    out, err := c.Render("tracker.reset", map[string]any{})
    if err != nil || out != "cleared" { t.Fatalf("override not applied: %q %v", out, err) }
    if !c.Has("tracker.move") { t.Fatalf("defaults lost after override") }
}

func TestNew_DuplicateOverrideKeys(t *testing.T) {
    dir := t.TempDir()
    body := []byte("tracker:\n  reset: \"x\"\n")
    for _, name := range []string{"a.yaml", "b.yml"} {
        if err := os.WriteFile(filepath.Join(dir, name), body, 0o644); err != nil { t.Fatalf("write: %v", err) }
    }
    _, err := New(dir)
    if err == nil || !strings.Contains(err.Error(), "tracker.reset") { t.Fatalf("expected duplicate key error, got %v", err) }
}

func TestNew_BrokenTemplate(t *testing.T) {
    dir := t.TempDir()
    if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("tracker:\n  move: \"{{.SAN\"\n"), 0o644); err != nil { t.Fatalf("write: %v", err) }
    if _, err := New(dir); err == nil { t.Fatalf("expected parse error") }
}
