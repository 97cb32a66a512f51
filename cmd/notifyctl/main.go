// notifyctl runs notification maintenance and schedule-driven invocations outside the worker.
package main

import (
	"fmt"
	"os"

	"acc-notifications/internal/common/config"
	"acc-notifications/internal/common/logger"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: configs/config.yaml lookup)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level")

	rootCmd.AddCommand(migrateCmd, createCmd, linkCmd)
}

var rootCmd = &cobra.Command{
	Use:           "notifyctl",
	Short:         "Operate the ACC notification engine",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func newLogger(cfg *config.Config) logger.Logger {
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	return logger.NewStructured(level, cfg.Logging.Format, cfg.Logging.Output).
		WithFields(map[string]interface{}{"service": "notifyctl"})
}
