package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.RecordMarker != "Hallazgo" {
		t.Fatalf("unexpected marker: %q", cfg.RecordMarker)
	}
	if cfg.TabCount != 10 {
		t.Fatalf("unexpected tab count: %d", cfg.TabCount)
	}
	if cfg.FetchTimeoutDuration() != time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.FetchTimeoutDuration())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if cfg.TabCount != Default().TabCount {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finnerve.yaml")
	data := "corpus_url: https://example.com/c.md\ntab_count: 4\nfetch_timeout: 250ms\ndark_mode: true\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.CorpusURL != "https://example.com/c.md" {
		t.Fatalf("url not loaded: %q", cfg.CorpusURL)
	}
	if cfg.TabCount != 4 {
		t.Fatalf("tab count not loaded: %d", cfg.TabCount)
	}
	if cfg.FetchTimeoutDuration() != 250*time.Millisecond {
		t.Fatalf("timeout not loaded: %v", cfg.FetchTimeoutDuration())
	}
	if !cfg.DarkMode {
		t.Fatal("dark mode not loaded")
	}
	// Untouched keys keep defaults.
	if cfg.RecordMarker != "Hallazgo" {
		t.Fatalf("marker default lost: %q", cfg.RecordMarker)
	}
}

func TestLoadMalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("tab_count: [not a number"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverridesCorpusURL(t *testing.T) {
	t.Setenv("FINNERVE_CORPUS_URL", "https://override.example/c.md")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CorpusURL != "https://override.example/c.md" {
		t.Fatalf("env override ignored: %q", cfg.CorpusURL)
	}
}

func TestFetchTimeoutFallsBackOnGarbage(t *testing.T) {
	cfg := Default()
	cfg.FetchTimeout = "pronto"
	if cfg.FetchTimeoutDuration() != DefaultFetchTimeout {
		t.Fatalf("garbage timeout must fall back, got %v", cfg.FetchTimeoutDuration())
	}

	cfg.FetchTimeout = "-5s"
	if cfg.FetchTimeoutDuration() != DefaultFetchTimeout {
		t.Fatal("negative timeout must fall back")
	}
}
