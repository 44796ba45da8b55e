package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the client settings.
type Config struct {
	APIURL            string
	RequestTimeout    time.Duration
	RefreshInterval   time.Duration // zero disables background refresh
	RollbackOnFailure bool
	LogFile           string
	LogLevel          string
	SessionPath       string
}

const (
	defaultConfigPath      = "~/.config/frame/config.toml"
	defaultAPIURL          = "http://127.0.0.1:8080"
	defaultRequestTimeout  = 30 * time.Second
	defaultRefreshInterval = 60 * time.Second
	defaultLogFile         = "~/.local/state/frame/frame.log"
	defaultLogLevel        = "info"
	defaultSessionPath     = "~/.local/state/frame/session.toml"
)

// Environment variables that override the file.
const (
	EnvAPIURL      = "FRAME_API_URL"
	EnvLogLevel    = "FRAME_LOG_LEVEL"
	EnvSessionPath = "FRAME_SESSION_PATH"
)

// Default returns the built-in configuration with paths expanded.
func Default() Config {
	return Config{
		APIURL:            defaultAPIURL,
		RequestTimeout:    defaultRequestTimeout,
		RefreshInterval:   defaultRefreshInterval,
		RollbackOnFailure: true,
		LogFile:           mustExpand(defaultLogFile),
		LogLevel:          defaultLogLevel,
		SessionPath:       mustExpand(defaultSessionPath),
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config at path (default ~/.config/frame/config.toml),
// falling back to defaults when the file is missing, then applies
// environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL            string `toml:"api_url"`
		RequestTimeout    string `toml:"request_timeout"`
		RefreshInterval   string `toml:"refresh_interval"`
		RollbackOnFailure *bool  `toml:"rollback_on_failure"`
		LogFile           string `toml:"log_file"`
		LogLevel          string `toml:"log_level"`
		SessionPath       string `toml:"session_path"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, cfg.RequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.RefreshInterval, err = parseDuration("refresh_interval", raw.RefreshInterval, cfg.RefreshInterval); err != nil {
		return Config{}, err
	}
	if raw.RollbackOnFailure != nil {
		cfg.RollbackOnFailure = *raw.RollbackOnFailure
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.SessionPath); v != "" {
		cfg.SessionPath = mustExpand(v)
	}

	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvSessionPath)); v != "" {
		cfg.SessionPath = mustExpand(v)
	}
	return cfg
}

// parseDuration reads a Go duration string. Empty keeps fallback; "0"
// is allowed and means disabled.
func parseDuration(key, value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("parse config: %s must not be negative", key)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ to the home directory and returns an
// absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
