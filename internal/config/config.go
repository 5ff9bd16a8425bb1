package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings. Zero values fall back to defaults at
// load time, so a partial config file is fine.
type Config struct {
	// BanksDir is where the question-bank JSON documents live.
	BanksDir string `yaml:"banks_dir"`

	// TimeLimitSeconds is the countdown for one attempt.
	TimeLimitSeconds int `yaml:"time_limit_seconds"`

	// PassMark is the absolute number of correct answers required to pass.
	PassMark int `yaml:"pass_mark"`

	// AutosaveSeconds is the autosave cadence while an attempt runs.
	AutosaveSeconds int `yaml:"autosave_seconds"`
}

// Default returns the standard exam settings: banks under the XDG data dir,
// one hour, pass at 26, autosave every 30 seconds.
func Default() Config {
	return Config{
		BanksDir:         defaultBanksDir(),
		TimeLimitSeconds: 3600,
		PassMark:         26,
		AutosaveSeconds:  30,
	}
}

// Load reads the config file at path (Default() when the file is absent),
// fills unset fields with defaults, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No file: defaults plus env.
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
		cfg = merge(cfg, fileCfg)
	}

	applyEnv(&cfg)

	if cfg.TimeLimitSeconds <= 0 || cfg.AutosaveSeconds <= 0 || cfg.PassMark <= 0 {
		return cfg, fmt.Errorf("config values must be positive: %+v", cfg)
	}
	return cfg, nil
}

// DefaultPath resolves the config file location:
// $XDG_CONFIG_HOME/qprep/config.yaml, falling back to ~/.config.
func DefaultPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "qprep", "config.yaml"), nil
}

func merge(base, override Config) Config {
	if override.BanksDir != "" {
		base.BanksDir = override.BanksDir
	}
	if override.TimeLimitSeconds > 0 {
		base.TimeLimitSeconds = override.TimeLimitSeconds
	}
	if override.PassMark > 0 {
		base.PassMark = override.PassMark
	}
	if override.AutosaveSeconds > 0 {
		base.AutosaveSeconds = override.AutosaveSeconds
	}
	return base
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("QPREP_BANKS_DIR"); v != "" {
		cfg.BanksDir = v
	}
	if v := os.Getenv("QPREP_TIME_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeLimitSeconds = n
		}
	}
	if v := os.Getenv("QPREP_PASS_MARK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PassMark = n
		}
	}
}

func defaultBanksDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "banks"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "qprep", "banks")
}
