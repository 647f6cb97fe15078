// ABOUTME: CLI command for the light/dark theme preference.
// ABOUTME: Reads or writes the theme key of the config file.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/config"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark]",
	Short:     "Show or set the color theme",
	Long:      `Show the current theme, or save a new one to the config file.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{config.ThemeLight, config.ThemeDark},
	Annotations: map[string]string{
		skipEngine: "true",
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Println(themeName(cfg.Theme))
			return nil
		}

		theme := args[0]
		if theme != config.ThemeLight && theme != config.ThemeDark {
			return fmt.Errorf("unknown theme: %s (use light or dark)", theme)
		}

		if err := config.SetTheme(configFile(), theme); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		color.Green("✓ Theme set to %s", theme)
		return nil
	},
}

func themeName(theme string) string {
	if theme == "" {
		return config.ThemeLight
	}
	return theme
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
