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

	"github.com/five82/stormctl/scrapestorm"
)

// Config captures stormctl's settings.
type Config struct {
	Host         string
	Port         int
	Timeout      time.Duration
	PollInterval time.Duration
	ResourcesDir string
	LogFile      string
	LogLevel     string
}

const (
	defaultConfigPath   = "~/.config/stormctl/config.toml"
	defaultResourcesDir = "~/.local/share/stormctl/resources"
	defaultLogFile      = "~/.local/share/stormctl/stormctl.log"
	defaultLogLevel     = "info"
	defaultPollInterval = 2 * time.Second
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Host:         scrapestorm.DefaultHost,
		Port:         scrapestorm.DefaultPort,
		Timeout:      scrapestorm.DefaultTimeout,
		PollInterval: defaultPollInterval,
		ResourcesDir: mustExpand(defaultResourcesDir),
		LogFile:      mustExpand(defaultLogFile),
		LogLevel:     defaultLogLevel,
	}
}

// Load locates and parses the stormctl config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Host           string `toml:"host"`
		Port           int    `toml:"port"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
		PollSeconds    int    `toml:"poll_seconds"`
		ResourcesDir   string `toml:"resources_dir"`
		LogFile        string `toml:"log_file"`
		LogLevel       string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if host := strings.TrimSpace(raw.Host); host != "" {
		cfg.Host = host
	}
	if raw.Port < 0 || raw.Port > 65535 {
		return Config{}, fmt.Errorf("parse config: port %d out of range", raw.Port)
	}
	if raw.Port > 0 {
		cfg.Port = raw.Port
	}
	if raw.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(raw.TimeoutSeconds) * time.Second
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if dir := strings.TrimSpace(raw.ResourcesDir); dir != "" {
		cfg.ResourcesDir = mustExpand(dir)
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}

	return cfg, nil
}

// Endpoint returns the ScrapeStorm server address.
func (c Config) Endpoint() scrapestorm.Endpoint {
	return scrapestorm.Endpoint{Host: c.Host, Port: c.Port}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
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
