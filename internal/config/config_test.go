package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Interpreter.BufferCap != 2000 {
		t.Errorf("BufferCap = %d, want 2000", cfg.Interpreter.BufferCap)
	}
	if cfg.Interpreter.MessageMax != 60 {
		t.Errorf("MessageMax = %d, want 60", cfg.Interpreter.MessageMax)
	}
	if cfg.Interpreter.MinAlphaRatio <= 0 || cfg.Interpreter.MinAlphaRatio >= 1 {
		t.Errorf("MinAlphaRatio = %v, want in (0, 1)", cfg.Interpreter.MinAlphaRatio)
	}
	if cfg.Watchdog.QuietPeriod() <= 0 {
		t.Errorf("QuietPeriod = %v, want positive", cfg.Watchdog.QuietPeriod())
	}
}

func TestLoad_UsesDefaults(t *testing.T) {
	resetViper(t)
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Interpreter.BufferCap != Default().Interpreter.BufferCap {
		t.Errorf("BufferCap = %d, want default %d",
			cfg.Interpreter.BufferCap, Default().Interpreter.BufferCap)
	}
	if cfg.Session.Command != "claude" {
		t.Errorf("Session.Command = %q, want %q", cfg.Session.Command, "claude")
	}
}

func TestLoad_FromYAML(t *testing.T) {
	resetViper(t)
	SetDefaults()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := strings.Join([]string{
		"interpreter:",
		"  buffer_cap: 512",
		"  min_alpha_ratio: 0.5",
		"watchdog:",
		"  quiet_period_ms: 1500",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Interpreter.BufferCap != 512 {
		t.Errorf("BufferCap = %d, want 512", cfg.Interpreter.BufferCap)
	}
	if cfg.Interpreter.MinAlphaRatio != 0.5 {
		t.Errorf("MinAlphaRatio = %v, want 0.5", cfg.Interpreter.MinAlphaRatio)
	}
	if got := cfg.Watchdog.QuietPeriod(); got != 1500*time.Millisecond {
		t.Errorf("QuietPeriod = %v, want 1.5s", got)
	}
	// Untouched keys keep their defaults.
	if cfg.Interpreter.MessageMax != 60 {
		t.Errorf("MessageMax = %d, want default 60", cfg.Interpreter.MessageMax)
	}
}

func TestGet_FallsBackToDefaults(t *testing.T) {
	resetViper(t)
	// No SetDefaults, nothing set: Get must still produce a usable config.
	cfg := Get()
	if cfg == nil {
		t.Fatal("Get returned nil")
	}
}

func TestConfigDir_RespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	if got := ConfigDir(); got != filepath.Join("/tmp/xdg-test", "glimpse") {
		t.Errorf("ConfigDir() = %q, want XDG-based path", got)
	}
	if got := ConfigFile(); !strings.HasSuffix(got, "config.yaml") {
		t.Errorf("ConfigFile() = %q, want a config.yaml path", got)
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	resetViper(t)
	SetDefaults()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("watchdog:\n  quiet_period_ms: 1000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("watchdog:\n  quiet_period_ms: 2500\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := viper.ReadInConfig(); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg == nil {
			t.Fatal("reload callback got nil config")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("config change not observed within 3s")
	}
}

func TestWatcher_CloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(filepath.Join(dir, "config.yaml"), func(*Config) {})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close should be a no-op: %v", err)
	}
}
