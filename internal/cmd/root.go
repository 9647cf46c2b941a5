// Package cmd wires the glimpse CLI together.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/glimpsehq/glimpse/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "glimpse",
	Short: "Status monitor for terminal AI coding agents",
	Long: `Glimpse runs AI coding agents inside pseudo-terminals and reads their
output streams to answer three questions at a glance: is this an agent,
is it working or idle, and what is it doing right now.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/glimpse/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/glimpse")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("GLIMPSE")
	// Replace dots with underscores for nested keys in env vars
	// e.g., GLIMPSE_WATCHDOG_QUIET_PERIOD_MS for watchdog.quiet_period_ms
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
