// ABOUTME: Dashboard summary combining habits, meals, notifications and profile targets.
// ABOUTME: Shared by the CLI panel, the HTTP API, the live feed and MCP.
package app

import (
	"github.com/harperreed/habits/internal/config"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/tracker"
)

// Goal compares a tracked amount against a profile target.
type Goal struct {
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	Percent float64 `json:"percent"`
}

func newGoal(current, target float64) Goal {
	g := Goal{Current: current, Target: target}
	if target > 0 {
		g.Percent = current / target * 100
		if g.Percent > 100 {
			g.Percent = 100
		}
	}
	return g
}

// Dashboard is a point-in-time view of everything the UI shows.
type Dashboard struct {
	Profile       config.Profile        `json:"profile"`
	Theme         string                `json:"theme"`
	Progress      float64               `json:"progress"`
	Habits        []models.Habit        `json:"habits"`
	Meals         []models.Meal         `json:"meals"`
	Nutrition     models.Nutrition      `json:"nutrition"`
	Calories      Goal                  `json:"calories"`
	Water         Goal                  `json:"water"`
	Steps         Goal                  `json:"steps"`
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
	Achievement   *models.Achievement   `json:"achievement,omitempty"`
}

// Dashboard builds the current dashboard view.
func (a *App) Dashboard() Dashboard {
	habits := a.Habits.Habits()
	meals := a.Meals.Meals()
	notes := a.Notifications.Snapshot()
	cfg := a.Settings()
	profile := cfg.Profile

	d := Dashboard{
		Profile:       profile,
		Theme:         cfg.Theme,
		Progress:      tracker.DailyProgress(habits),
		Habits:        habits,
		Meals:         meals,
		Nutrition:     tracker.NutritionTotals(meals),
		Notifications: notes.Notifications,
		UnreadCount:   notes.UnreadCount,
		Achievement:   notes.Achievement,
	}
	d.Calories = newGoal(d.Nutrition.Calories, profile.TargetCalories)
	d.Water = newGoal(habitCurrent(habits, tracker.HabitWater), profile.TargetWater)
	d.Steps = newGoal(habitCurrent(habits, tracker.HabitSteps), profile.TargetSteps)
	return d
}

func habitCurrent(habits []models.Habit, name string) float64 {
	for _, h := range habits {
		if h.Name == name {
			return h.Current
		}
	}
	return 0
}
