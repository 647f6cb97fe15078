// ABOUTME: Starter habits and meals written to an empty repository.
// ABOUTME: Gives a fresh install a populated dashboard.
package seed

import (
	"fmt"

	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/storage"
)

// Habits returns the starter habit list with a week of history.
func Habits() []models.Habit {
	type start struct {
		spec    models.HabitSpec
		streak  int
		history [models.HistoryLength]float64
	}
	starts := []start{
		{models.HabitSpec{Name: "Water", Icon: "💧", Target: 2300, Unit: "ml", Current: 1200, Color: "#3b82f6"},
			3, [models.HistoryLength]float64{2100, 2400, 2300, 1900, 2500, 2350, 1200}},
		{models.HabitSpec{Name: "Steps", Icon: "👣", Target: 10000, Unit: "steps", Current: 6500, Color: "#10b981"},
			2, [models.HistoryLength]float64{8200, 10400, 11000, 7600, 10100, 12000, 6500}},
		{models.HabitSpec{Name: "Sleep", Icon: "😴", Target: 8, Unit: "hours", Current: 6.5, Color: "#8b5cf6"},
			0, [models.HistoryLength]float64{7.5, 8, 6, 7, 8.5, 9, 6.5}},
		{models.HabitSpec{Name: "Meditation", Icon: "🧘", Target: 20, Unit: "min", Current: 20, Color: "#f59e0b"},
			7, [models.HistoryLength]float64{20, 25, 20, 20, 30, 20, 20}},
		{models.HabitSpec{Name: "Reading", Icon: "📚", Target: 30, Unit: "min", Current: 10, Color: "#ef4444"},
			0, [models.HistoryLength]float64{30, 0, 45, 30, 15, 40, 10}},
	}

	habits := make([]models.Habit, 0, len(starts))
	for i, s := range starts {
		h := models.NewHabit(fmt.Sprintf("%d", i+1), s.spec)
		h.Streak = s.streak
		for d, v := range s.history {
			h.History[d].Value = v
		}
		habits = append(habits, h)
	}
	return habits
}

// Meals returns the starter meal plan.
func Meals() []models.Meal {
	return []models.Meal{
		models.NewMeal("1", models.MealSpec{
			Name: "Breakfast", Time: "07:00 am", Calories: 380, Protein: 22, Carbs: 45, Fat: 12,
			Image: "https://images.unsplash.com/photo-1533089860892-a9b9ac6cd6e4?q=80&w=100&auto=format",
		}),
		models.NewMeal("2", models.MealSpec{
			Name: "Lunch", Time: "12:30 pm", Calories: 520, Protein: 35, Carbs: 60, Fat: 18,
			Image: "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?q=80&w=100&auto=format",
		}),
		models.NewMeal("3", models.MealSpec{
			Name: "Dinner", Time: "07:00 pm", Calories: 420, Protein: 30, Carbs: 40, Fat: 15,
			Image: "https://images.unsplash.com/photo-1476224203421-9ac39bcb3327?q=80&w=100&auto=format",
		}),
	}
}

// IfEmpty writes the starter data when r holds no habits and no meals.
// It reports whether anything was written.
func IfEmpty(r storage.Repository) (bool, error) {
	empty, err := storage.IsEmpty(r)
	if err != nil || !empty {
		return false, err
	}
	if err := r.ReplaceHabits(Habits()); err != nil {
		return false, fmt.Errorf("seed habits: %w", err)
	}
	if err := r.ReplaceMeals(Meals()); err != nil {
		return false, fmt.Errorf("seed meals: %w", err)
	}
	return true, nil
}
