// ABOUTME: Root Cobra command for habits CLI.
// ABOUTME: Loads config, starts logging and opens the engine via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/harperreed/habits/internal/app"
	"github.com/harperreed/habits/internal/config"
	"github.com/harperreed/habits/internal/logger"
	"github.com/spf13/cobra"
)

// skipEngine marks commands that must not open storage.
const skipEngine = "skip-engine"

var (
	cfgPath     string
	flagBackend string
	flagDebug   bool
	cfg         *config.Config
	dash        *app.App
)

var rootCmd = &cobra.Command{
	Use:   "habits",
	Short: "Daily habit, meal and notification dashboard",
	Long: `Habits tracks daily habits and meals and derives notifications from your progress.

WHAT IT TRACKS:

  Habits          water, steps, sleep, meditation, reading, or your own
  Meals           calories, protein, carbs and fat per meal
  Notifications   reminders and congratulations derived from your habits
  Achievements    one pending badge at a time (e.g. Active Stepper)

QUICK START:

  $ habits dashboard                  # Progress, goals and unread count
  $ habits habit list                 # Today's habits
  $ habits habit set 1 2300           # Log today's water
  $ habits meal add Snack --calories 180
  $ habits notify list                # See what the rules derived

SERVING:

  $ habits serve                      # HTTP API + live websocket feed
  $ habits mcp                        # MCP server on stdio

CONFIGURATION:

  Settings live in ~/.config/habits/config.json and can be overridden with
  HABITS_* environment variables (e.g. HABITS_THEME=dark).

DATA STORAGE:

  SQLite at ~/.local/share/habits/habits.db by default, or Charm KV
  (backend "charm") for encrypted sync across devices.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}

		if err := logger.Init(logger.Config{Debug: cfg.Debug, DataDir: cfg.GetDataDir()}); err != nil {
			return fmt.Errorf("failed to start logging: %w", err)
		}

		if cmd.Annotations[skipEngine] != "" {
			return nil
		}

		dash, err = app.Open(cfg)
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if dash == nil {
			return nil
		}
		persistErr := dash.PersistErr()
		closeErr := dash.Close()
		dash = nil
		if persistErr != nil {
			return persistErr
		}
		return closeErr
	},
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	path := cfgPath
	if path == "" {
		path = config.GetConfigPath()
	}

	c, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flagBackend != "" {
		c.Backend = flagBackend
	}
	if flagDebug {
		c.Debug = true
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func configFile() string {
	if cfgPath != "" {
		return cfgPath
	}
	return config.GetConfigPath()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.config/habits/config.json)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend: sqlite or charm")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "debug logging to stderr")
}
