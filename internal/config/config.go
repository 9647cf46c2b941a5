// Package config holds the glimpse configuration: interpreter tuning,
// watchdog timing, logging, and TUI preferences. Configuration is read via
// viper from {configDir}/config.yaml with defaults for every key.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete glimpse configuration.
type Config struct {
	Interpreter InterpreterConfig `mapstructure:"interpreter"`
	Watchdog    WatchdogConfig    `mapstructure:"watchdog"`
	Session     SessionConfig     `mapstructure:"session"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	TUI         TUIConfig         `mapstructure:"tui"`
}

// InterpreterConfig tunes the output interpreter heuristics.
type InterpreterConfig struct {
	// BufferCap is the number of characters of output the interpreter
	// retains for classification.
	BufferCap int `mapstructure:"buffer_cap"`
	// MessageMax caps the extracted one-line summary, ellipsis included.
	MessageMax int `mapstructure:"message_max"`
	// MinAlphaRatio rejects message candidates whose letter proportion is
	// below it (0 < ratio < 1).
	MinAlphaRatio float64 `mapstructure:"min_alpha_ratio"`
	// RecentLines is how many trailing lines the heuristics examine.
	RecentLines int `mapstructure:"recent_lines"`
}

// WatchdogConfig tunes the caller-side idle debounce timer.
type WatchdogConfig struct {
	// QuietPeriodMs is how long a session must produce no output before
	// the watchdog confirms idleness.
	QuietPeriodMs int `mapstructure:"quiet_period_ms"`
}

// QuietPeriod returns the quiet period as a duration.
func (w WatchdogConfig) QuietPeriod() time.Duration {
	return time.Duration(w.QuietPeriodMs) * time.Millisecond
}

// SessionConfig controls session behavior.
type SessionConfig struct {
	// ScrollbackSize is how many bytes of raw PTY output each session
	// retains for the copy/export debug surface.
	ScrollbackSize int `mapstructure:"scrollback_size"`
	// Command is the default agent command to spawn when none is given.
	Command string `mapstructure:"command"`
}

// LoggingConfig controls the debug log.
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR.
	Level string `mapstructure:"level"`
	// Dir is where debug.log is written; empty means stderr.
	Dir string `mapstructure:"dir"`
}

// TUIConfig controls the session list display.
type TUIConfig struct {
	// ShowMessages toggles the one-line summary column.
	ShowMessages bool `mapstructure:"show_messages"`
	// MessageWidth is the display width allotted to the summary column.
	MessageWidth int `mapstructure:"message_width"`
	// BellOnIdle rings the terminal bell when a session becomes idle.
	BellOnIdle bool `mapstructure:"bell_on_idle"`
}

// Default returns a Config with the standard values.
func Default() *Config {
	return &Config{
		Interpreter: InterpreterConfig{
			BufferCap:     2000,
			MessageMax:    60,
			MinAlphaRatio: 0.3,
			RecentLines:   10,
		},
		Watchdog: WatchdogConfig{
			QuietPeriodMs: 4000,
		},
		Session: SessionConfig{
			ScrollbackSize: 100000, // 100KB of raw scrollback
			Command:        "claude",
		},
		Logging: LoggingConfig{
			Level: "INFO",
			Dir:   "",
		},
		TUI: TUIConfig{
			ShowMessages: true,
			MessageWidth: 60,
			BellOnIdle:   true,
		},
	}
}

// SetDefaults registers default values with viper.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("interpreter.buffer_cap", defaults.Interpreter.BufferCap)
	viper.SetDefault("interpreter.message_max", defaults.Interpreter.MessageMax)
	viper.SetDefault("interpreter.min_alpha_ratio", defaults.Interpreter.MinAlphaRatio)
	viper.SetDefault("interpreter.recent_lines", defaults.Interpreter.RecentLines)

	viper.SetDefault("watchdog.quiet_period_ms", defaults.Watchdog.QuietPeriodMs)

	viper.SetDefault("session.scrollback_size", defaults.Session.ScrollbackSize)
	viper.SetDefault("session.command", defaults.Session.Command)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	viper.SetDefault("tui.show_messages", defaults.TUI.ShowMessages)
	viper.SetDefault("tui.message_width", defaults.TUI.MessageWidth)
	viper.SetDefault("tui.bell_on_idle", defaults.TUI.BellOnIdle)
}

// Load reads the configuration from viper into a Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Reload re-reads the config file from disk and unmarshals it.
func Reload() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}
	return Load()
}

// Get returns the current configuration, falling back to defaults if
// unmarshaling fails.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "glimpse")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".glimpse"
	}
	return filepath.Join(home, ".config", "glimpse")
}

// ConfigFile returns the path to the config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
