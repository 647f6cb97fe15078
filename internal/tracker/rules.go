// ABOUTME: Threshold rules that turn a habit list into notifications.
// ABOUTME: Each rule is a pure function of the habits and the wall clock.
package tracker

import (
	"fmt"
	"strconv"
	"time"

	"github.com/harperreed/habits/internal/models"
)

// Habit names the rules look for.
const (
	HabitWater = "Water"
	HabitSteps = "Steps"
	HabitSleep = "Sleep"
)

// Fixed notification and achievement ids.
const (
	IDWaterReminder  = "water-reminder"
	IDStepsComplete  = "steps-complete"
	IDSleepWarning   = "sleep-warning"
	IDLunchReminder  = "lunch-reminder"
	IDNewFeature     = "new-feature"
	IDWeeklySummary  = "weekly-summary"
	IDActiveStepper  = "active-stepper"
	streakIDPrefix   = "streak-"
	streakMilestone  = 7
	minSleepHours    = 7.0
	lunchReminderHr  = 11
	waterWarnPortion = 0.5
)

// RuleInput is what every rule observes.
type RuleInput struct {
	Habits []models.Habit
	Now    time.Time
}

// RuleOutcome is what a rule contributes to a derivation pass.
// Achievement is a proposal; the center only keeps it when no
// achievement is already showing.
type RuleOutcome struct {
	Notifications []models.Notification
	Achievement   *models.Achievement
}

// Rule derives notifications from habits.
type Rule func(RuleInput) RuleOutcome

// DefaultRules returns the dashboard's rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		WaterReminder,
		StepsComplete,
		SleepWarning,
		WeeklyStreak,
		LunchReminder,
		FeatureAnnouncement,
		WeeklySummary,
	}
}

// StreakID is the notification id for a habit's seven-day streak.
func StreakID(habitID string) string {
	return streakIDPrefix + habitID
}

// WaterReminder warns when water intake is under half the target.
func WaterReminder(in RuleInput) RuleOutcome {
	h, ok := findHabit(in.Habits, HabitWater)
	if !ok || h.Current >= h.Target*waterWarnPortion {
		return RuleOutcome{}
	}
	return single(models.Notification{
		ID:    IDWaterReminder,
		Title: "Stay Hydrated!",
		Message: fmt.Sprintf("You've only had %sml of water today. Try to reach your goal of %sml.",
			formatNumber(h.Current), formatNumber(h.Target)),
		Type: models.NotificationWarning,
		Icon: "💧",
		Time: clockTime(in.Now),
	})
}

// StepsComplete congratulates on reaching the step goal and proposes the
// Active Stepper achievement.
func StepsComplete(in RuleInput) RuleOutcome {
	h, ok := findHabit(in.Habits, HabitSteps)
	if !ok || h.Current < h.Target {
		return RuleOutcome{}
	}
	out := single(models.Notification{
		ID:      IDStepsComplete,
		Title:   "Goal Achieved!",
		Message: fmt.Sprintf("Congratulations! You've reached your daily step goal of %s steps.", formatNumber(h.Target)),
		Type:    models.NotificationSuccess,
		Icon:    "👣",
		Time:    clockTime(in.Now),
	})
	out.Achievement = &models.Achievement{
		ID:          IDActiveStepper,
		Title:       "Active Stepper",
		Description: "You've reached your daily step goal. Keep up the healthy lifestyle!",
		Icon:        "🏆",
		Tier:        models.TierGold,
	}
	return out
}

// SleepWarning nudges when last night's sleep is under seven hours.
func SleepWarning(in RuleInput) RuleOutcome {
	h, ok := findHabit(in.Habits, HabitSleep)
	if !ok || h.Current >= minSleepHours {
		return RuleOutcome{}
	}
	return single(models.Notification{
		ID:      IDSleepWarning,
		Title:   "Sleep Health",
		Message: fmt.Sprintf("You slept %s hours last night. Aim for 7-8 hours for optimal health.", formatNumber(h.Current)),
		Type:    models.NotificationInfo,
		Icon:    "😴",
		Time:    clockTime(in.Now),
	})
}

// WeeklyStreak celebrates every habit whose streak is exactly seven.
func WeeklyStreak(in RuleInput) RuleOutcome {
	var out RuleOutcome
	for _, h := range in.Habits {
		if h.Streak != streakMilestone {
			continue
		}
		out.Notifications = append(out.Notifications, models.Notification{
			ID:      StreakID(h.ID),
			Title:   "7-Day Streak!",
			Message: fmt.Sprintf("You've maintained your %s habit for a full week! Keep it up!", h.Name),
			Type:    models.NotificationSuccess,
			Icon:    "🔥",
			Time:    clockTime(in.Now),
		})
	}
	return out
}

// LunchReminder fires during the 11 o'clock hour.
func LunchReminder(in RuleInput) RuleOutcome {
	if in.Now.Hour() != lunchReminderHr {
		return RuleOutcome{}
	}
	return single(models.Notification{
		ID:      IDLunchReminder,
		Title:   "Lunch Time Soon",
		Message: "Don't forget to have a balanced lunch in about an hour!",
		Type:    models.NotificationInfo,
		Icon:    "🍽️",
		Time:    clockTime(in.Now),
	})
}

// FeatureAnnouncement is always present.
func FeatureAnnouncement(RuleInput) RuleOutcome {
	return single(models.Notification{
		ID:      IDNewFeature,
		Title:   "New Feature Available!",
		Message: "Try our new workout planner in the Activities section!",
		Type:    models.NotificationAlert,
		Icon:    "🎉",
		Time:    "09:30",
	})
}

// WeeklySummary appears on Sundays.
func WeeklySummary(in RuleInput) RuleOutcome {
	if in.Now.Weekday() != time.Sunday {
		return RuleOutcome{}
	}
	return single(models.Notification{
		ID:      IDWeeklySummary,
		Title:   "Your Weekly Summary",
		Message: "Check out how you performed this week compared to your goals!",
		Type:    models.NotificationInfo,
		Icon:    "📊",
		Time:    "08:00",
	})
}

func single(n models.Notification) RuleOutcome {
	return RuleOutcome{Notifications: []models.Notification{n}}
}

// findHabit returns the first habit with an exact name match.
func findHabit(habits []models.Habit, name string) (models.Habit, bool) {
	for _, h := range habits {
		if h.Name == name {
			return h, true
		}
	}
	return models.Habit{}, false
}

func clockTime(t time.Time) string {
	return t.Format("15:04")
}

// formatNumber prints integers without a decimal point and keeps the
// shortest exact form otherwise.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
