package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultModel = "faster-whisper"

	defaultAddr          = ":8080"
	defaultHistoryLimit  = 200
	defaultRemoteTimeout = 120.0
	defaultMaxUploadMB   = 64
	defaultRecordSeconds = 10
	defaultStateDirLinux = ".local/state/voxscribe"
	defaultConfigDir     = ".config/voxscribe"
)

// Config holds user configuration loaded from TOML.
type Config struct {
	Server struct {
		Addr        string `toml:"addr"`
		MaxUploadMB int    `toml:"max_upload_mb"`
	} `toml:"server"`

	ASR struct {
		DefaultModel string `toml:"default_model"`
		ModelPath    string `toml:"model_path"` // ggml weights for the local whisper backend
		Language     string `toml:"language"`   // auto, en, zh, ...
	} `toml:"asr"`

	Remote struct {
		TaiwaneseURL string  `toml:"taiwanese_url"`
		HakkaURL     string  `toml:"hakka_url"`
		DolphinURL   string  `toml:"dolphin_url"`
		LangSym      string  `toml:"lang_sym"`
		RegionSym    string  `toml:"region_sym"`
		TimeoutSec   float64 `toml:"timeout_sec"`
	} `toml:"remote"`

	History struct {
		Enabled bool `toml:"enabled"`
		Limit   int  `toml:"limit"`
	} `toml:"history"`

	Audio struct {
		DeviceName    string `toml:"device_name"`
		RecordSeconds int    `toml:"record_seconds"`
	} `toml:"audio"`

	Logging struct {
		Level  string `toml:"level"`  // debug, info, warn, error
		Format string `toml:"format"` // text, json
		Stdout bool   `toml:"stdout"`
	} `toml:"logging"`

	Paths struct {
		StateDir   string `toml:"state_dir"`
		LogPath    string `toml:"log_path"`
		PidPath    string `toml:"pid_path"`
		ConfigPath string `toml:"-"`
	} `toml:"paths"`

	Metrics struct {
		Enabled bool   `toml:"enabled"`
		Addr    string `toml:"addr"`
	} `toml:"metrics"`
}

// Default returns Config populated with defaults.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	stateDir := filepath.Join(home, defaultStateDirLinux)
	// macOS prefers ~/Library/Application Support/voxscribe for state/logs
	if isMac() {
		stateDir = filepath.Join(home, "Library", "Application Support", "voxscribe")
	}

	cfg := &Config{}

	cfg.Server.Addr = defaultAddr
	cfg.Server.MaxUploadMB = defaultMaxUploadMB

	cfg.ASR.DefaultModel = DefaultModel
	cfg.ASR.ModelPath = filepath.Join(stateDir, "models", "ggml-large-v3-q5_0.bin")
	cfg.ASR.Language = "auto"

	cfg.Remote.LangSym = "zh"
	cfg.Remote.RegionSym = "MINNAN"
	cfg.Remote.TimeoutSec = defaultRemoteTimeout

	cfg.History.Enabled = true
	cfg.History.Limit = defaultHistoryLimit

	cfg.Audio.RecordSeconds = defaultRecordSeconds

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	cfg.Logging.Stdout = true

	cfg.Paths.StateDir = stateDir
	cfg.Paths.LogPath = filepath.Join(stateDir, "voxscribe.log")
	cfg.Paths.PidPath = filepath.Join(stateDir, "voxscribe.pid")

	cfg.Metrics.Enabled = false
	cfg.Metrics.Addr = "127.0.0.1:9327"

	return cfg, nil
}

// Load loads config from file, applying defaults.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, defaultConfigDir, "config.toml")
	}

	// Read if exists; otherwise write template.
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, err
			}
			if err := Save(cfg, path); err != nil {
				return nil, err
			}
			cfg.Paths.ConfigPath = path
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Paths.ConfigPath = path
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes cfg to path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

func isMac() bool {
	return runtime.GOOS == "darwin"
}

// MustStatePaths ensures state dirs exist.
func MustStatePaths(cfg *Config) error {
	for _, p := range []string{cfg.Paths.StateDir, filepath.Dir(cfg.Paths.LogPath)} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(p, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("VOXSCRIBE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("VOXSCRIBE_DEFAULT_MODEL"); v != "" {
		cfg.ASR.DefaultModel = v
	}
	if v := os.Getenv("VOXSCRIBE_MODEL_PATH"); v != "" {
		cfg.ASR.ModelPath = v
	}
	if v := os.Getenv("VOXSCRIBE_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
		cfg.Metrics.Enabled = true
	}
	if v := os.Getenv("VOXSCRIBE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("VOXSCRIBE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("VOXSCRIBE_HISTORY_ENABLED"); v != "" {
		cfg.History.Enabled = v != "0" && strings.ToLower(v) != "false"
	}
}
