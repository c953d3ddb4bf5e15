package llm

import (
	"os"
	"path/filepath"
	"testing"
)

func TestModelManager_ScansCacheDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Phi-3-mini-4k-instruct-q4.gguf")
	if err := os.WriteFile(path, []byte("not a real model"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	m := NewModelManager(dir)
	if err := m.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if !m.IsDownloaded("phi-3-mini-4k-instruct-q4") {
		t.Fatalf("expected model to be detected")
	}
	if m.IsDownloaded("mystery-model") {
		t.Fatalf("unexpected model reported as downloaded")
	}

	resolved, err := m.Resolve("PHI-3-MINI-4K-INSTRUCT-Q4")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved != path {
		t.Fatalf("resolved %q, want %q", resolved, path)
	}

	models := m.List()
	if len(models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(models))
	}
	if models[0].SizeBytes != int64(len("not a real model")) {
		t.Fatalf("unexpected size %d", models[0].SizeBytes)
	}
}

func TestModelManager_ResolveUnknownFails(t *testing.T) {
	m := NewModelManager(t.TempDir())
	if err := m.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if _, err := m.Resolve("never-downloaded"); err == nil {
		t.Fatalf("expected error for unknown model")
	}
}

func TestModelManager_InitCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "models")
	m := NewModelManager(dir)
	if err := m.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected cache dir created: %v", err)
	}
}
