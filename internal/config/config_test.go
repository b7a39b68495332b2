package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	for _, key := range []string{EnvPort, EnvLogLevel, EnvDataDir, EnvAssetsDir, EnvPipelineFile} {
		os.Unsetenv(key)
	}

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.AssetsDir() != "assets" {
		t.Errorf("AssetsDir = %q, want %q", cfg.AssetsDir(), "assets")
	}
	if filepath.Base(cfg.DBPath()) != DBFilename {
		t.Errorf("DBPath = %q, want %q filename", cfg.DBPath(), DBFilename)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvDataDir, "/tmp/videobe-test")
	t.Setenv(EnvAssetsDir, "/srv/assets")
	t.Setenv(EnvOpenAIModel, "gpt-4.1")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port())
	}
	if cfg.DBPath() != filepath.Join("/tmp/videobe-test", DBFilename) {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}
	if cfg.AssetsDir() != "/srv/assets" {
		t.Errorf("AssetsDir = %q", cfg.AssetsDir())
	}
	if cfg.OpenAIModel() != "gpt-4.1" {
		t.Errorf("OpenAIModel = %q", cfg.OpenAIModel())
	}
}

func TestNewInvalidPort(t *testing.T) {
	t.Setenv(EnvPort, "not-a-port")
	if _, err := New(); err == nil {
		t.Error("expected error for non-numeric port")
	}

	t.Setenv(EnvPort, "70000")
	if _, err := New(); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestLoadPipelineDefaults(t *testing.T) {
	pipeline, err := LoadPipeline("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pipeline.FPS != 30 || pipeline.MaxHighlights != 18 {
		t.Errorf("unexpected defaults: %+v", pipeline)
	}
	if pipeline.Assets.Broll != "broll_catalog.json" {
		t.Errorf("Broll = %q", pipeline.Assets.Broll)
	}
	if pipeline.Planner.MaxEntries != 160 {
		t.Errorf("MaxEntries = %d, want 160", pipeline.Planner.MaxEntries)
	}
}

func TestLoadPipelineOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	data := `
fps: 25
assets:
  broll: custom_broll.json
planner:
  model: gpt-4.1
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	pipeline, err := LoadPipeline(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pipeline.FPS != 25 {
		t.Errorf("FPS = %v, want 25", pipeline.FPS)
	}
	if pipeline.Assets.Broll != "custom_broll.json" {
		t.Errorf("Broll = %q", pipeline.Assets.Broll)
	}
	// Unset fields keep their defaults.
	if pipeline.Assets.Sfx != "sfx_catalog.json" {
		t.Errorf("Sfx = %q", pipeline.Assets.Sfx)
	}
	if pipeline.Planner.Model != "gpt-4.1" || pipeline.Planner.MaxEntries != 160 {
		t.Errorf("Planner = %+v", pipeline.Planner)
	}
}

func TestLoadPipelineMissing(t *testing.T) {
	if _, err := LoadPipeline(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing pipeline file")
	}
}

func TestResolveAsset(t *testing.T) {
	if got := ResolveAsset("/srv/assets", "broll_catalog.json"); got != filepath.Join("/srv/assets", "broll_catalog.json") {
		t.Errorf("got %q", got)
	}
	if got := ResolveAsset("/srv/assets", "/abs/broll.json"); got != "/abs/broll.json" {
		t.Errorf("absolute path should pass through, got %q", got)
	}
	if got := ResolveAsset("/srv/assets", ""); got != "" {
		t.Errorf("empty name should pass through, got %q", got)
	}
}
