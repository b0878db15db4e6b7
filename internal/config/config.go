package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultBaseURL       = "http://localhost:5000"
	defaultGreetingMS    = 500
	defaultAnimationMS   = 50
	defaultRotationStep  = 0.5
	defaultExecuteQueue  = 8
	defaultHistoryTail   = 10
	defaultStateDirLinux = ".local/state/chanakya"
	defaultConfigDir     = ".config/chanakya"
)

// Config holds user configuration loaded from TOML.
type Config struct {
	Assistant struct {
		BaseURL     string  `toml:"base_url"`
		ListenPath  string  `toml:"listen_path"`
		ExecutePath string  `toml:"execute_path"`
		TimeoutSec  float64 `toml:"timeout_sec"` // 0 waits forever
		UserAgent   string  `toml:"user_agent"`
	} `toml:"assistant"`

	UI struct {
		GreetingDelayMS int     `toml:"greeting_delay_ms"`
		AnimationMS     int     `toml:"animation_ms"`
		RotationStep    float64 `toml:"rotation_step"`
		ExecuteQueue    int     `toml:"execute_queue"`
		HistoryTail     int     `toml:"history_tail"`
	} `toml:"ui"`

	Speak SpeakConfig `toml:"speak"`

	Logging struct {
		Level   string `toml:"level"`   // debug, info, warn, error
		Format  string `toml:"format"`  // text, json
		Console bool   `toml:"console"` // mirror to stderr outside the full-screen widget
	} `toml:"logging"`

	Paths struct {
		StateDir    string `toml:"state_dir"`
		LogPath     string `toml:"log_path"`
		HistoryPath string `toml:"history_path"`
		ConfigPath  string `toml:"-"`
	} `toml:"paths"`

	History struct {
		Enabled bool `toml:"enabled"`
	} `toml:"history"`

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
	// macOS prefers ~/Library/Application Support/chanakya for state/logs
	if isMac() {
		stateDir = filepath.Join(home, "Library", "Application Support", "chanakya")
	}

	cfg := &Config{}

	cfg.Assistant.BaseURL = DefaultBaseURL
	cfg.Assistant.ListenPath = "/listen"
	cfg.Assistant.ExecutePath = "/execute"
	cfg.Assistant.TimeoutSec = 0
	cfg.Assistant.UserAgent = "chanakya/0.1"

	cfg.UI.GreetingDelayMS = defaultGreetingMS
	cfg.UI.AnimationMS = defaultAnimationMS
	cfg.UI.RotationStep = defaultRotationStep
	cfg.UI.ExecuteQueue = defaultExecuteQueue
	cfg.UI.HistoryTail = defaultHistoryTail

	cfg.Speak.Enabled = false
	cfg.Speak.Command = defaultSpeakCommand()
	cfg.Speak.Args = []string{}
	cfg.Speak.CooldownSec = 0
	cfg.Speak.TimeoutSec = 15
	cfg.Speak.QueueSize = 4
	cfg.Speak.Env = map[string]string{}

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"

	cfg.Paths.StateDir = stateDir
	cfg.Paths.LogPath = filepath.Join(stateDir, "chanakya.log")
	cfg.Paths.HistoryPath = filepath.Join(stateDir, "history.tsv")

	cfg.History.Enabled = true

	cfg.Metrics.Enabled = false
	cfg.Metrics.Addr = "127.0.0.1:9318"

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

// Encode renders cfg as TOML.
func Encode(cfg *Config) (string, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func isMac() bool {
	return runtime.GOOS == "darwin"
}

func defaultSpeakCommand() string {
	if isMac() {
		return "say"
	}
	return "espeak"
}

// MustStatePaths ensures state dirs exist.
func MustStatePaths(cfg *Config) error {
	for _, p := range []string{cfg.Paths.StateDir, filepath.Dir(cfg.Paths.LogPath), filepath.Dir(cfg.Paths.HistoryPath)} {
		if p == "" || p == "." {
			continue
		}
		if err := os.MkdirAll(p, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Timeout converts Assistant.TimeoutSec; zero means no deadline.
func (c *Config) Timeout() time.Duration {
	if c.Assistant.TimeoutSec <= 0 {
		return 0
	}
	return time.Duration(c.Assistant.TimeoutSec * float64(time.Second))
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CHANAKYA_ASSISTANT_URL"); v != "" {
		cfg.Assistant.BaseURL = v
	}
	if v := os.Getenv("CHANAKYA_TIMEOUT_SEC"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Assistant.TimeoutSec = f
		}
	}
	if v := os.Getenv("CHANAKYA_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
		cfg.Metrics.Enabled = true
	}
	if v := os.Getenv("CHANAKYA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("CHANAKYA_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("CHANAKYA_LOG_CONSOLE"); v != "" {
		cfg.Logging.Console = truthy(v)
	}
	if v := os.Getenv("CHANAKYA_SPEAK_ENABLED"); v != "" {
		cfg.Speak.Enabled = truthy(v)
	}
	if v := os.Getenv("CHANAKYA_HISTORY_ENABLED"); v != "" {
		cfg.History.Enabled = truthy(v)
	}
}

func truthy(v string) bool {
	return v != "0" && strings.ToLower(v) != "false"
}
