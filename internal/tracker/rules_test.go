// ABOUTME: Tests for each notification rule's threshold and message text.
// ABOUTME: Pins the clock so time-dependent rules are deterministic.
package tracker

import (
	"testing"
	"time"

	"github.com/harperreed/habits/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-06-12 was a Wednesday.
var wednesdayMorning = time.Date(2024, 6, 12, 9, 15, 0, 0, time.Local)

func habitNamed(id, name string, target, current float64) models.Habit {
	return models.NewHabit(id, models.HabitSpec{Name: name, Target: target, Current: current})
}

func TestWaterReminder(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		want    bool
	}{
		{"well under half", 500, true},
		{"exactly half", 1150, false},
		{"above half", 2000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := WaterReminder(RuleInput{
				Habits: []models.Habit{habitNamed("1", HabitWater, 2300, tt.current)},
				Now:    wednesdayMorning,
			})
			if got := len(out.Notifications) == 1; got != tt.want {
				t.Errorf("fired = %v, want %v", got, tt.want)
			}
		})
	}

	out := WaterReminder(RuleInput{Habits: []models.Habit{habitNamed("1", HabitWater, 2300, 500)}, Now: wednesdayMorning})
	n := out.Notifications[0]
	assert.Equal(t, IDWaterReminder, n.ID)
	assert.Equal(t, models.NotificationWarning, n.Type)
	assert.Equal(t, "You've only had 500ml of water today. Try to reach your goal of 2300ml.", n.Message)
	assert.Equal(t, "09:15", n.Time)
	assert.False(t, n.IsRead)
}

func TestWaterReminderMissingHabit(t *testing.T) {
	out := WaterReminder(RuleInput{Habits: []models.Habit{habitNamed("1", "Hydration", 2300, 0)}, Now: wednesdayMorning})
	assert.Empty(t, out.Notifications)
}

func TestStepsComplete(t *testing.T) {
	out := StepsComplete(RuleInput{Habits: []models.Habit{habitNamed("2", HabitSteps, 10000, 10000)}, Now: wednesdayMorning})

	require.Len(t, out.Notifications, 1)
	assert.Equal(t, "Congratulations! You've reached your daily step goal of 10000 steps.", out.Notifications[0].Message)
	require.NotNil(t, out.Achievement)
	assert.Equal(t, IDActiveStepper, out.Achievement.ID)
	assert.Equal(t, models.TierGold, out.Achievement.Tier)

	out = StepsComplete(RuleInput{Habits: []models.Habit{habitNamed("2", HabitSteps, 10000, 9999)}, Now: wednesdayMorning})
	assert.Empty(t, out.Notifications)
	assert.Nil(t, out.Achievement)
}

func TestSleepWarning(t *testing.T) {
	out := SleepWarning(RuleInput{Habits: []models.Habit{habitNamed("3", HabitSleep, 8, 6.5)}, Now: wednesdayMorning})
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, "You slept 6.5 hours last night. Aim for 7-8 hours for optimal health.", out.Notifications[0].Message)

	out = SleepWarning(RuleInput{Habits: []models.Habit{habitNamed("3", HabitSleep, 8, 7)}, Now: wednesdayMorning})
	assert.Empty(t, out.Notifications)
}

func TestWeeklyStreak(t *testing.T) {
	a := habitNamed("a", "Meditation", 20, 20)
	a.Streak = 7
	b := habitNamed("b", "Reading", 30, 0)
	b.Streak = 8
	c := habitNamed("c", "Water", 2300, 2300)
	c.Streak = 7

	out := WeeklyStreak(RuleInput{Habits: []models.Habit{a, b, c}, Now: wednesdayMorning})

	require.Len(t, out.Notifications, 2)
	assert.Equal(t, "streak-a", out.Notifications[0].ID)
	assert.Equal(t, "You've maintained your Meditation habit for a full week! Keep it up!", out.Notifications[0].Message)
	assert.Equal(t, "streak-c", out.Notifications[1].ID)
}

func TestLunchReminder(t *testing.T) {
	at := func(hour int) time.Time { return time.Date(2024, 6, 12, hour, 5, 0, 0, time.Local) }

	assert.Len(t, LunchReminder(RuleInput{Now: at(11)}).Notifications, 1)
	assert.Empty(t, LunchReminder(RuleInput{Now: at(10)}).Notifications)
	assert.Empty(t, LunchReminder(RuleInput{Now: at(12)}).Notifications)
}

func TestFeatureAnnouncementAlwaysPresent(t *testing.T) {
	out := FeatureAnnouncement(RuleInput{Now: wednesdayMorning})
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, IDNewFeature, out.Notifications[0].ID)
	assert.Equal(t, models.NotificationAlert, out.Notifications[0].Type)
	assert.Equal(t, "09:30", out.Notifications[0].Time)
}

func TestWeeklySummaryOnSunday(t *testing.T) {
	sunday := time.Date(2024, 6, 16, 14, 0, 0, 0, time.Local)

	out := WeeklySummary(RuleInput{Now: sunday})
	require.Len(t, out.Notifications, 1)
	assert.Equal(t, "08:00", out.Notifications[0].Time)

	assert.Empty(t, WeeklySummary(RuleInput{Now: wednesdayMorning}).Notifications)
}
