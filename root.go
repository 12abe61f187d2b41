package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gerunddev/parsercache/internal/commands"
	"github.com/gerunddev/parsercache/internal/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "parsercache",
	Short: "Parse files through pluggable per-extension parser stacks",
	Long: `Parsercache runs files through a stack of parsers chosen by extension.

Each stack is a sequence of named parsers from the config file. A file with
no registered extension goes through the default stack. Parsed files are
tracked in a cache so batch and watch only re-parse what changed.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfgFile != "" {
			path := cfgFile
			config.ConfigPath = func() string {
				return path
			}
		}
	},
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ~/.config/parsercache/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

// loadEnv reads the config file and sets up the parsers it describes
func loadEnv() (*commands.Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return commands.Setup(cfg)
}
