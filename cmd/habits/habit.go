// ABOUTME: CLI commands for habits: list, add, set, reset, delete and show.
// ABOUTME: IDs may be given as unique prefixes.
package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/models"
	"github.com/spf13/cobra"
)

var (
	habitUnit    string
	habitIcon    string
	habitColor   string
	habitCurrent float64
)

var habitCmd = &cobra.Command{
	Use:     "habit",
	Aliases: []string{"habits", "h"},
	Short:   "Track daily habits",
	Long: `Track daily habits against a numeric target.

Each habit has today's value, a target, a streak of consecutive completions
and a seven-day history. Reaching the target extends the streak; dropping
back under it resets the streak to zero.

EXAMPLES:

  habits habit list
  habits habit add Stretching 15 --unit min --icon 🤸
  habits habit set 1 2300        # Set today's water to 2300 ml
  habits habit show 2            # Steps with weekly history
  habits habit reset             # Zero every habit for a new day`,
}

var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List habits with today's progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		habits := dash.Habits.Habits()
		if len(habits) == 0 {
			fmt.Println("No habits yet. Add one with 'habits habit add'.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, h := range habits {
			fmt.Printf("%s %s %s %s/%s %s %s%s\n",
				faint.Sprint(shortID(h.ID)),
				h.Icon,
				padRight(h.Name, 12),
				formatValue(h.Current),
				formatValue(h.Target),
				padRight(h.Unit, 6),
				progressMark(h),
				streakMark(h.Streak))
		}
		fmt.Println()
		fmt.Printf("Daily progress: %.0f%%\n", dash.Habits.CalculateDailyProgress())
		return nil
	},
}

var habitAddCmd = &cobra.Command{
	Use:     "add <name> <target>",
	Aliases: []string{"a"},
	Short:   "Add a habit",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := parseAmount(args[1])
		if err != nil {
			return fmt.Errorf("invalid target: %s", args[1])
		}
		if target <= 0 {
			return fmt.Errorf("target must be positive: %s", args[1])
		}
		if !isAmount(habitCurrent) || habitCurrent < 0 {
			return fmt.Errorf("current must be a non-negative number")
		}

		h := dash.Habits.AddHabit(models.HabitSpec{
			Name:    args[0],
			Icon:    habitIcon,
			Target:  target,
			Unit:    habitUnit,
			Current: habitCurrent,
			Color:   habitColor,
		})

		color.Green("✓ Added %s", h.Name)
		fmt.Printf("  %s target %s %s\n",
			color.New(color.Faint).Sprint(shortID(h.ID)),
			formatValue(h.Target), h.Unit)
		return nil
	},
}

var habitSetCmd = &cobra.Command{
	Use:   "set <id> <value>",
	Short: "Set today's value for a habit",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := dash.Habits.ResolveID(args[0])
		if err != nil {
			return fmt.Errorf("habit %w", err)
		}
		value, err := parseAmount(args[1])
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[1])
		}
		if value < 0 {
			return fmt.Errorf("value must not be negative: %s", args[1])
		}

		dash.Habits.UpdateHabit(id, value)
		h, _ := dash.Habits.Get(id)

		color.Green("✓ %s %s/%s %s", h.Name, formatValue(h.Current), formatValue(h.Target), h.Unit)
		if h.IsComplete() {
			fmt.Printf("  Target reached%s\n", streakMark(h.Streak))
		}
		return nil
	},
}

var habitResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset today's value of every habit",
	Long: `Reset today's value of every habit to zero.

Streaks and history are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dash.Habits.ResetAllHabits()
		color.Green("✓ Reset %d habits", len(dash.Habits.Habits()))
		return nil
	},
}

var habitDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a habit",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := dash.Habits.ResolveID(args[0])
		if err != nil {
			return fmt.Errorf("habit %w", err)
		}
		h, _ := dash.Habits.Get(id)
		dash.Habits.DeleteHabit(id)

		color.Yellow("✗ Deleted %s", h.Name)
		return nil
	},
}

var habitShowCmd = &cobra.Command{
	Use:     "show <id>",
	Aliases: []string{"select"},
	Short:   "Select a habit and show its details",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := dash.Habits.ResolveID(args[0])
		if err != nil {
			return fmt.Errorf("habit %w", err)
		}
		dash.Habits.Select(id)
		h, ok := dash.Habits.Selected()
		if !ok {
			return fmt.Errorf("habit not found: %s", args[0])
		}

		fmt.Printf("%s %s\n", h.Icon, color.New(color.Bold).Sprint(h.Name))
		fmt.Printf("  ID:      %s\n", h.ID)
		fmt.Printf("  Today:   %s/%s %s (%.0f%%)\n", formatValue(h.Current), formatValue(h.Target), h.Unit, h.Percent())
		fmt.Printf("  Streak:  %d\n", h.Streak)
		fmt.Println()
		fmt.Println(historyChart(h))
		return nil
	},
}

// historyChart renders one bar per history slot, scaled to the target.
func historyChart(h models.Habit) string {
	const width = 20
	var b strings.Builder
	for i, entry := range h.History {
		filled := 0
		if h.Target > 0 {
			filled = int(entry.Value / h.Target * width)
		}
		if filled > width {
			filled = width
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
		if entry.Value >= h.Target {
			bar = color.GreenString(bar)
		}
		fmt.Fprintf(&b, "  %s %s %s", padRight(entry.Date, 4), bar, formatValue(entry.Value))
		if i < len(h.History)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func progressMark(h models.Habit) string {
	if h.IsComplete() {
		return color.GreenString("✓")
	}
	return color.New(color.Faint).Sprintf("%3.0f%%", h.Percent())
}

func streakMark(streak int) string {
	if streak == 0 {
		return ""
	}
	return fmt.Sprintf(" 🔥%d", streak)
}

// parseAmount parses a finite number; NaN and infinities are rejected.
func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if !isAmount(v) {
		return 0, fmt.Errorf("not a finite number: %s", s)
	}
	return v, nil
}

func isAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// formatValue prints whole numbers without decimals.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	habitAddCmd.Flags().StringVarP(&habitUnit, "unit", "u", "", "unit label (ml, steps, min)")
	habitAddCmd.Flags().StringVar(&habitIcon, "icon", "⭐", "emoji icon")
	habitAddCmd.Flags().StringVar(&habitColor, "color", "", "display color")
	habitAddCmd.Flags().Float64Var(&habitCurrent, "current", 0, "starting value for today")

	habitCmd.AddCommand(habitListCmd)
	habitCmd.AddCommand(habitAddCmd)
	habitCmd.AddCommand(habitSetCmd)
	habitCmd.AddCommand(habitResetCmd)
	habitCmd.AddCommand(habitDeleteCmd)
	habitCmd.AddCommand(habitShowCmd)
	rootCmd.AddCommand(habitCmd)
}
