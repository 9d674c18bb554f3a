package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Host != "localhost" || cfg.Port != 8080 {
		t.Fatalf("endpoint = %s:%d, want localhost:8080", cfg.Host, cfg.Port)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, defaultPollInterval)
	}

	wantResources, err := expandPath(defaultResourcesDir)
	if err != nil {
		t.Fatalf("expandPath(defaultResourcesDir) returned error: %v", err)
	}
	if cfg.ResourcesDir != wantResources {
		t.Fatalf("ResourcesDir = %q, want %q", cfg.ResourcesDir, wantResources)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
host = "  10.0.0.5  "
port = 9999
timeout_seconds = 12
poll_seconds = 7
resources_dir = "  ~/storm/resources  "
log_file = "~/storm/stormctl.log"
log_level = " DEBUG "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Host != "10.0.0.5" || cfg.Port != 9999 {
		t.Fatalf("endpoint = %s:%d, want 10.0.0.5:9999", cfg.Host, cfg.Port)
	}
	if got := cfg.Endpoint().String(); got != "10.0.0.5:9999" {
		t.Fatalf("Endpoint() = %q, want 10.0.0.5:9999", got)
	}
	if cfg.Timeout != 12*time.Second || cfg.PollInterval != 7*time.Second {
		t.Fatalf("Timeout/PollInterval = %v/%v, want 12s/7s", cfg.Timeout, cfg.PollInterval)
	}
	if cfg.ResourcesDir != filepath.Join(home, "storm/resources") {
		t.Fatalf("ResourcesDir = %q, want under HOME", cfg.ResourcesDir)
	}
	if cfg.LogFile != filepath.Join(home, "storm/stormctl.log") {
		t.Fatalf("LogFile = %q, want under HOME", cfg.LogFile)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
host = "   "
port = 0
resources_dir = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := Default()
	if cfg.Host != def.Host || cfg.Port != def.Port {
		t.Fatalf("endpoint = %s:%d, want defaults", cfg.Host, cfg.Port)
	}
	if cfg.ResourcesDir != def.ResourcesDir {
		t.Fatalf("ResourcesDir = %q, want %q", cfg.ResourcesDir, def.ResourcesDir)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`host = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_PortOutOfRangeFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`port = 70000`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load returned nil error, want range error")
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
