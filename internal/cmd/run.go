package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/glimpsehq/glimpse/internal/config"
	"github.com/glimpsehq/glimpse/internal/logging"
	"github.com/glimpsehq/glimpse/internal/session"
	"github.com/glimpsehq/glimpse/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- [agent-command args...]",
	Short: "Run an agent under glimpse and monitor it",
	Long: `Run spawns the agent command in a pseudo-terminal, interprets its output,
and shows the session list UI. With no command, the configured default
agent is used.

Repeat --session to monitor several agents at once:

  glimpse run --session "claude" --session "claude --project api"`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringArray("session", nil, "additional agent command to spawn (may repeat)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Stderr logging would bleed into the alt screen, so the UI always
	// logs to a file.
	logDir := cfg.Logging.Dir
	if logDir == "" {
		logDir = config.ConfigDir()
	}
	log, err := logging.New(logDir, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer log.Close()

	commands, err := sessionCommands(cmd, args, cfg)
	if err != nil {
		return err
	}

	manager := session.NewManager(nil, log)
	defer manager.CloseAll()

	opts := sessionOptions(cfg)
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		opts.Cols = uint16(w)
		opts.Rows = uint16(h)
	}

	for _, argv := range commands {
		opts.Command = argv
		if _, err := manager.Spawn(opts); err != nil {
			return fmt.Errorf("spawning %q: %w", strings.Join(argv, " "), err)
		}
	}

	// The quiet period follows config file edits while sessions run.
	if cfgFile := viper.ConfigFileUsed(); cfgFile != "" {
		watcher, err := config.NewWatcher(cfgFile, func(next *config.Config) {
			log.Info("configuration reloaded", "quiet_period_ms", next.Watchdog.QuietPeriodMs)
			for _, sess := range manager.List() {
				sess.SetQuietPeriod(next.Watchdog.QuietPeriod())
			}
		})
		if err != nil {
			log.Warn("config watcher unavailable", "error", err)
		} else {
			defer watcher.Close()
		}
	}

	return tui.Run(manager, cfg.TUI)
}

// sessionCommands resolves the agent command lines to spawn: positional
// args first, then --session values, then the configured default.
func sessionCommands(cmd *cobra.Command, args []string, cfg *config.Config) ([][]string, error) {
	var commands [][]string
	if len(args) > 0 {
		commands = append(commands, args)
	}

	extra, err := cmd.Flags().GetStringArray("session")
	if err != nil {
		return nil, err
	}
	for _, line := range extra {
		argv := strings.Fields(line)
		if len(argv) == 0 {
			return nil, fmt.Errorf("empty --session value")
		}
		commands = append(commands, argv)
	}

	if len(commands) == 0 {
		argv := strings.Fields(cfg.Session.Command)
		if len(argv) == 0 {
			return nil, fmt.Errorf("no agent command given and session.command is empty")
		}
		commands = append(commands, argv)
	}
	return commands, nil
}

// sessionOptions maps the loaded configuration onto session options.
func sessionOptions(cfg *config.Config) session.Options {
	opts := session.DefaultOptions()
	opts.QuietPeriod = cfg.Watchdog.QuietPeriod()
	if cfg.Session.ScrollbackSize > 0 {
		opts.ScrollbackSize = cfg.Session.ScrollbackSize
	}
	if cfg.Interpreter.BufferCap > 0 {
		opts.Interpreter.BufferCap = cfg.Interpreter.BufferCap
	}
	if cfg.Interpreter.MessageMax > 0 {
		opts.Interpreter.MessageMax = cfg.Interpreter.MessageMax
	}
	if cfg.Interpreter.MinAlphaRatio > 0 {
		opts.Interpreter.MinAlphaRatio = cfg.Interpreter.MinAlphaRatio
	}
	if cfg.Interpreter.RecentLines > 0 {
		opts.Interpreter.RecentLines = cfg.Interpreter.RecentLines
	}
	return opts
}
