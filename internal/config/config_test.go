package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TimeLimitSeconds != 3600 || cfg.PassMark != 26 || cfg.AutosaveSeconds != 30 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadMergesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "banks_dir: /srv/banks\npass_mark: 30\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BanksDir != "/srv/banks" {
		t.Errorf("banks dir = %q", cfg.BanksDir)
	}
	if cfg.PassMark != 30 {
		t.Errorf("pass mark = %d", cfg.PassMark)
	}
	// Unset fields keep their defaults.
	if cfg.TimeLimitSeconds != 3600 {
		t.Errorf("time limit = %d", cfg.TimeLimitSeconds)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("QPREP_BANKS_DIR", "/env/banks")
	t.Setenv("QPREP_TIME_LIMIT", "900")
	t.Setenv("QPREP_PASS_MARK", "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BanksDir != "/env/banks" {
		t.Errorf("banks dir = %q", cfg.BanksDir)
	}
	if cfg.TimeLimitSeconds != 900 {
		t.Errorf("time limit = %d", cfg.TimeLimitSeconds)
	}
	if cfg.PassMark != 26 {
		t.Errorf("garbage env value must be ignored, pass mark = %d", cfg.PassMark)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("want parse error")
	}
}
