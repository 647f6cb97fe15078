// ABOUTME: Dashboard command rendering progress, goals, habits and notifications.
// ABOUTME: Panels are drawn with lipgloss in the configured light or dark theme.
package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/habits/internal/app"
	"github.com/harperreed/habits/internal/config"
	"github.com/spf13/cobra"
)

type palette struct {
	accent lipgloss.Color
	text   lipgloss.Color
	muted  lipgloss.Color
	good   lipgloss.Color
	border lipgloss.Color
}

var (
	lightPalette = palette{
		accent: lipgloss.Color("63"),
		text:   lipgloss.Color("235"),
		muted:  lipgloss.Color("244"),
		good:   lipgloss.Color("35"),
		border: lipgloss.Color("250"),
	}
	darkPalette = palette{
		accent: lipgloss.Color("205"),
		text:   lipgloss.Color("252"),
		muted:  lipgloss.Color("240"),
		good:   lipgloss.Color("42"),
		border: lipgloss.Color("238"),
	}
)

func paletteFor(theme string) palette {
	if theme == config.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "d"},
	Short:   "Show today's dashboard",
	Long: `Show today's progress, calorie/water/steps goals, habits and notifications.

The color scheme follows the theme setting (see 'habits theme').`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(renderDashboard(dash.Dashboard()))
		return nil
	},
}

func renderDashboard(d app.Dashboard) string {
	p := paletteFor(d.Theme)

	title := lipgloss.NewStyle().Foreground(p.accent).Bold(true)
	muted := lipgloss.NewStyle().Foreground(p.muted)
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Foreground(p.text).
		Padding(0, 1)

	header := title.Render(fmt.Sprintf("Hello, %s", d.Profile.Name)) + "  " +
		muted.Render(fmt.Sprintf("%.0f%% of today's habits complete", d.Progress))

	goals := strings.Join([]string{
		title.Render("Goals"),
		goalLine("Calories", d.Calories, "kcal", p),
		goalLine("Water", d.Water, "ml", p),
		goalLine("Steps", d.Steps, "", p),
	}, "\n")

	habitLines := []string{title.Render("Habits")}
	for _, h := range d.Habits {
		mark := muted.Render(fmt.Sprintf("%3.0f%%", h.Percent()))
		if h.IsComplete() {
			mark = lipgloss.NewStyle().Foreground(p.good).Render("  ✓ ")
		}
		habitLines = append(habitLines, fmt.Sprintf("%s %s %s%s", h.Icon, padRight(h.Name, 11), mark, streakMark(h.Streak)))
	}

	noteLines := []string{title.Render(fmt.Sprintf("Notifications (%d unread)", d.UnreadCount))}
	for _, n := range d.Notifications {
		line := fmt.Sprintf("%s %s", n.Icon, truncate(n.Title, 26))
		if n.IsRead {
			line = muted.Render(line)
		}
		noteLines = append(noteLines, line)
	}
	if d.Achievement != nil {
		noteLines = append(noteLines, "", lipgloss.NewStyle().Foreground(p.good).Bold(true).
			Render(fmt.Sprintf("%s %s", d.Achievement.Icon, d.Achievement.Title)))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		panel.Render(goals),
		panel.Render(strings.Join(habitLines, "\n")),
		panel.Render(strings.Join(noteLines, "\n")),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func goalLine(label string, g app.Goal, unit string, p palette) string {
	const width = 16
	filled := int(g.Percent / 100 * width)
	bar := lipgloss.NewStyle().Foreground(p.good).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(p.muted).Render(strings.Repeat("░", width-filled))
	amount := fmt.Sprintf("%s/%s", formatValue(g.Current), formatValue(g.Target))
	if unit != "" {
		amount += " " + unit
	}
	return fmt.Sprintf("%s %s %s", padRight(label, 9), bar, amount)
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
