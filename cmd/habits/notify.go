// ABOUTME: CLI commands for derived notifications and the pending achievement.
// ABOUTME: Covers listing, read state, deletion and achievement dismissal.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/habits/internal/models"
	"github.com/spf13/cobra"
)

var notifyUnreadOnly bool

var notifyCmd = &cobra.Command{
	Use:     "notify",
	Aliases: []string{"notifications", "n"},
	Short:   "Show and manage notifications",
	Long: `Notifications are derived from your habits each time a habit changes.

RULES:

  water-reminder   water below half its target
  steps-complete   step goal reached (also awards Active Stepper)
  sleep-warning    under 7 hours of sleep
  streak-<id>      a habit reached a 7-day streak
  lunch-reminder   during the 11 o'clock hour
  new-feature      always present
  weekly-summary   on Sundays

Read state survives re-derivation unless preserve_read_state is false.

EXAMPLES:

  habits notify                 # Same as 'habits notify list'
  habits notify read sleep-warning
  habits notify read-all
  habits notify achievement`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return notifyListCmd.RunE(cmd, args)
	},
}

var notifyListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap := dash.Notifications.Snapshot()
		shown := 0
		for _, n := range snap.Notifications {
			if notifyUnreadOnly && n.IsRead {
				continue
			}
			printNotification(n)
			shown++
		}
		if shown == 0 {
			fmt.Println("No notifications.")
		}

		fmt.Println()
		fmt.Printf("%d unread\n", snap.UnreadCount)
		if snap.Achievement != nil {
			fmt.Printf("%s Achievement: %s\n", snap.Achievement.Icon, snap.Achievement.Title)
		}
		return nil
	},
}

func printNotification(n models.Notification) {
	faint := color.New(color.Faint)
	marker := color.CyanString("●")
	title := color.New(color.Bold).Sprint(n.Title)
	if n.IsRead {
		marker = " "
		title = n.Title
	}
	fmt.Printf("%s %s %s %s\n", marker, faint.Sprint(padRight(n.Time, 5)), n.Icon, title)
	fmt.Printf("        %s %s\n", truncate(n.Message, 70), faint.Sprintf("[%s]", n.ID))
}

// readStateCmd builds a command that changes one notification's read state.
func readStateCmd(use, short, done string, change func(id string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !change(args[0]) {
				return fmt.Errorf("notification not found: %s", args[0])
			}
			color.Green("✓ %s %s", done, args[0])
			fmt.Printf("  %d unread\n", dash.Notifications.UnreadCount())
			return nil
		},
	}
}

var notifyToggleCmd = readStateCmd("toggle", "Flip a notification's read state", "Toggled",
	func(id string) bool { return dash.Notifications.ToggleRead(id) })

var notifyReadCmd = readStateCmd("read", "Mark a notification as read", "Marked read",
	func(id string) bool { return dash.Notifications.MarkRead(id) })

var notifyUnreadCmd = readStateCmd("unread", "Mark a notification as unread", "Marked unread",
	func(id string) bool { return dash.Notifications.MarkUnread(id) })

var notifyReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dash.Notifications.MarkAllAsRead()
		color.Green("✓ All notifications read")
		return nil
	},
}

var notifyDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a notification",
	Long: `Delete a notification.

A deleted notification comes back the next time its rule fires.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !dash.Notifications.DeleteNotification(args[0]) {
			return fmt.Errorf("notification not found: %s", args[0])
		}
		color.Yellow("✗ Deleted %s", args[0])
		return nil
	},
}

var notifyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all notifications",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dash.Notifications.ClearAllNotifications()
		color.Yellow("✗ Cleared all notifications")
		return nil
	},
}

var notifyAchievementCmd = &cobra.Command{
	Use:   "achievement",
	Short: "Show the pending achievement",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, ok := dash.Notifications.CurrentAchievement()
		if !ok {
			fmt.Println("No achievement pending.")
			return nil
		}
		fmt.Printf("%s %s %s\n", a.Icon, color.New(color.Bold).Sprint(a.Title), tierLabel(a.Tier))
		fmt.Printf("  %s\n", a.Description)
		return nil
	},
}

var notifyDismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Dismiss the pending achievement",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, ok := dash.Notifications.CurrentAchievement()
		if !ok {
			fmt.Println("No achievement pending.")
			return nil
		}
		dash.Notifications.DismissAchievement()
		color.Yellow("✗ Dismissed %s", a.Title)
		return nil
	},
}

func tierLabel(tier models.AchievementTier) string {
	switch tier {
	case models.TierPlatinum:
		return color.CyanString("[platinum]")
	case models.TierGold:
		return color.YellowString("[gold]")
	case models.TierSilver:
		return color.WhiteString("[silver]")
	case models.TierBronze:
		return color.RedString("[bronze]")
	default:
		return ""
	}
}

func init() {
	notifyListCmd.Flags().BoolVarP(&notifyUnreadOnly, "unread", "u", false, "only unread notifications")

	notifyCmd.AddCommand(notifyListCmd)
	notifyCmd.AddCommand(notifyToggleCmd)
	notifyCmd.AddCommand(notifyReadCmd)
	notifyCmd.AddCommand(notifyUnreadCmd)
	notifyCmd.AddCommand(notifyReadAllCmd)
	notifyCmd.AddCommand(notifyDeleteCmd)
	notifyCmd.AddCommand(notifyClearCmd)
	notifyCmd.AddCommand(notifyAchievementCmd)
	notifyCmd.AddCommand(notifyDismissCmd)
	rootCmd.AddCommand(notifyCmd)
}
