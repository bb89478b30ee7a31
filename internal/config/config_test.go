package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultNoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Threshold != 1.0 || cfg.StepTA != 0.80 || cfg.StepPA != 0.95 || cfg.FastPathMinN != 250 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Workers <= 0 {
		t.Errorf("Workers = %d, want > 0", cfg.Workers)
	}
}

func TestLoadOverridesSubsetOfFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hwsec.toml")
	content := "step_ta = 0.7\nworkers = 4\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.StepTA != 0.7 {
		t.Errorf("StepTA = %v, want 0.7", cfg.StepTA)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	// Untouched fields keep their defaults.
	if cfg.Threshold != 1.0 {
		t.Errorf("Threshold = %v, want default 1.0", cfg.Threshold)
	}
	if cfg.StepPA != 0.95 {
		t.Errorf("StepPA = %v, want default 0.95", cfg.StepPA)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("not valid = = toml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}
