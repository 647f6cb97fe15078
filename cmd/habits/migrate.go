// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Moves habits, meals, notifications and the achievement from the current backend.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/config"
	"github.com/harperreed/habits/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo      string
	migrateDataDir string
	migrateDryRun  bool
	migrateForce   bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another storage backend",
	Long: `Copy all habits data from the configured backend to another one.

BACKENDS:

  sqlite   Local database at <data_dir>/habits.db
  charm    Charm KV, encrypted and synced across devices

The destination is overwritten. If it already holds data, pass --force.
After migrating, set "backend" in the config file to switch over.

USAGE:

  habits migrate --to charm --dry-run                 # Preview
  habits migrate --to charm                           # SQLite -> Charm
  habits migrate --backend charm --to sqlite          # Charm -> SQLite
  habits migrate --to sqlite --data-dir ~/backup      # Copy to another SQLite file`,
	Args: cobra.NoArgs,
	Annotations: map[string]string{
		skipEngine: "true",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		from := cfg.GetBackend()
		dstCfg := *cfg
		if migrateDataDir != "" {
			dstCfg.DataDir = migrateDataDir
		}

		if migrateTo == from && (from != config.BackendSQLite || samePath(cfg.GetDataDir(), dstCfg.GetDataDir())) {
			return fmt.Errorf("source and destination are the same %s backend", from)
		}

		src, err := cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", from, err)
		}
		defer src.Close()

		data, err := src.GetAllData()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", from, err)
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Printf("  Would copy %d habits, %d meals, %d notifications from %s to %s\n",
				len(data.Habits), len(data.Meals), len(data.Notifications), from, migrateTo)
			return nil
		}

		dst, err := dstCfg.OpenBackend(migrateTo)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", migrateTo, err)
		}
		defer dst.Close()

		empty, err := storage.IsEmpty(dst)
		if err != nil {
			return err
		}
		if !empty && !migrateForce {
			return fmt.Errorf("%s already has data; use --force to overwrite", migrateTo)
		}

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s → %s", from, migrateTo)
		fmt.Printf("  Habits: %d\n", summary.Habits)
		fmt.Printf("  Meals: %d\n", summary.Meals)
		fmt.Printf("  Notifications: %d\n", summary.Notifications)
		if summary.Achievement {
			fmt.Println("  Achievement: 1")
		}
		return nil
	},
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: sqlite or charm")
	migrateCmd.Flags().StringVar(&migrateDataDir, "data-dir", "", "destination data directory (sqlite)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVarP(&migrateForce, "force", "f", false, "overwrite a destination that has data")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}
