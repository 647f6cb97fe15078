// ABOUTME: MCP tool implementations for habits, meals and notifications.
// ABOUTME: Tools call the engine stores; IDs may be unique prefixes.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// Habits
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_habits",
		Description: "List all habits with today's progress, target and streak",
	}, s.handleListHabits)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_habit",
		Description: "Set today's value for a habit by ID or ID prefix",
	}, s.handleUpdateHabit)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_habit",
		Description: "Create a new habit with a daily target",
	}, s.handleAddHabit)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_habit",
		Description: "Delete a habit by ID or ID prefix",
	}, s.handleDeleteHabit)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "reset_habits",
		Description: "Reset today's value of every habit to zero, keeping streaks",
	}, s.handleResetHabits)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "daily_progress",
		Description: "Percentage of habits that reached their target today",
	}, s.handleDailyProgress)

	// Meals
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_meals",
		Description: "List today's meals",
	}, s.handleListMeals)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_meal",
		Description: "Log a meal with calories and macros",
	}, s.handleAddMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_meal",
		Description: "Update some fields of a meal by ID or ID prefix",
	}, s.handleUpdateMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_meal",
		Description: "Delete a meal by ID or ID prefix",
	}, s.handleDeleteMeal)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "meal_totals",
		Description: "Total calories, protein, carbs and fat across all meals",
	}, s.handleMealTotals)

	// Notifications
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_notifications",
		Description: "List notifications with the unread count and current achievement",
	}, s.handleListNotifications)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_notification",
		Description: "Flip the read state of a notification",
	}, s.handleToggleNotification)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "mark_all_read",
		Description: "Mark every notification as read",
	}, s.handleMarkAllRead)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_notification",
		Description: "Delete a notification by ID",
	}, s.handleDeleteNotification)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "clear_notifications",
		Description: "Delete all notifications",
	}, s.handleClearNotifications)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "dismiss_achievement",
		Description: "Dismiss the current achievement",
	}, s.handleDismissAchievement)
}

// Tool input/output types

type emptyInput struct{}

type idInput struct {
	ID string `json:"id" jsonschema:"Record ID or unique ID prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type habitsOutput struct {
	Habits []models.Habit `json:"habits"`
}

type habitOutput struct {
	Habit   models.Habit `json:"habit"`
	Message string       `json:"message"`
}

type updateHabitInput struct {
	ID    string  `json:"id" jsonschema:"Habit ID or unique ID prefix"`
	Value float64 `json:"value" jsonschema:"Today's value in the habit's unit"`
}

type addHabitInput struct {
	Name    string  `json:"name" jsonschema:"Habit name, e.g. Water"`
	Target  float64 `json:"target" jsonschema:"Daily target, must be positive"`
	Unit    string  `json:"unit,omitempty" jsonschema:"Unit label, e.g. ml or steps"`
	Icon    string  `json:"icon,omitempty" jsonschema:"Emoji icon"`
	Color   string  `json:"color,omitempty" jsonschema:"Display color"`
	Current float64 `json:"current,omitempty" jsonschema:"Starting value for today"`
}

type progressOutput struct {
	Progress  float64 `json:"progress"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
}

type mealsOutput struct {
	Meals []models.Meal `json:"meals"`
}

type mealOutput struct {
	Meal    models.Meal `json:"meal"`
	Message string      `json:"message"`
}

type addMealInput struct {
	Name     string  `json:"name" jsonschema:"Meal name, e.g. Breakfast"`
	Time     string  `json:"time,omitempty" jsonschema:"Display time, e.g. 07:00 am"`
	Calories float64 `json:"calories,omitempty" jsonschema:"Calories in kcal"`
	Protein  float64 `json:"protein,omitempty" jsonschema:"Protein in grams"`
	Carbs    float64 `json:"carbs,omitempty" jsonschema:"Carbohydrates in grams"`
	Fat      float64 `json:"fat,omitempty" jsonschema:"Fat in grams"`
	Image    string  `json:"image,omitempty" jsonschema:"Image URL"`
}

type updateMealInput struct {
	ID       string   `json:"id" jsonschema:"Meal ID or unique ID prefix"`
	Name     *string  `json:"name,omitempty" jsonschema:"New name"`
	Time     *string  `json:"time,omitempty" jsonschema:"New display time"`
	Calories *float64 `json:"calories,omitempty" jsonschema:"New calories"`
	Protein  *float64 `json:"protein,omitempty" jsonschema:"New protein"`
	Carbs    *float64 `json:"carbs,omitempty" jsonschema:"New carbohydrates"`
	Fat      *float64 `json:"fat,omitempty" jsonschema:"New fat"`
	Image    *string  `json:"image,omitempty" jsonschema:"New image URL"`
}

type notificationIDInput struct {
	ID string `json:"id" jsonschema:"Notification ID, e.g. water-reminder"`
}

// Tool handlers

func (s *Server) handleListHabits(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, habitsOutput, error) {
	return nil, habitsOutput{Habits: s.app.Habits.Habits()}, nil
}

func (s *Server) handleUpdateHabit(ctx context.Context, req *mcp.CallToolRequest, input updateHabitInput) (*mcp.CallToolResult, habitOutput, error) {
	if input.Value < 0 {
		return nil, habitOutput{}, fmt.Errorf("value must not be negative: %v", input.Value)
	}
	id, err := s.app.Habits.ResolveID(input.ID)
	if err != nil {
		return nil, habitOutput{}, fmt.Errorf("habit %w", err)
	}

	s.app.Habits.UpdateHabit(id, input.Value)
	if err := s.app.PersistErr(); err != nil {
		return nil, habitOutput{}, err
	}

	h, _ := s.app.Habits.Get(id)
	return nil, habitOutput{
		Habit:   h,
		Message: fmt.Sprintf("Set %s to %g/%g %s (streak %d)", h.Name, h.Current, h.Target, h.Unit, h.Streak),
	}, nil
}

func (s *Server) handleAddHabit(ctx context.Context, req *mcp.CallToolRequest, input addHabitInput) (*mcp.CallToolResult, habitOutput, error) {
	if input.Name == "" {
		return nil, habitOutput{}, fmt.Errorf("name is required")
	}
	if input.Target <= 0 {
		return nil, habitOutput{}, fmt.Errorf("target must be positive: %v", input.Target)
	}

	h := s.app.Habits.AddHabit(models.HabitSpec{
		Name:    input.Name,
		Icon:    input.Icon,
		Target:  input.Target,
		Unit:    input.Unit,
		Current: input.Current,
		Color:   input.Color,
	})
	if err := s.app.PersistErr(); err != nil {
		return nil, habitOutput{}, err
	}

	return nil, habitOutput{
		Habit:   h,
		Message: fmt.Sprintf("Added habit %s (ID: %s)", h.Name, h.ID),
	}, nil
}

func (s *Server) handleDeleteHabit(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := s.app.Habits.ResolveID(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("habit %w", err)
	}
	s.app.Habits.DeleteHabit(id)
	if err := s.app.PersistErr(); err != nil {
		return nil, simpleOutput{}, err
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted habit: %s", id),
	}, nil
}

func (s *Server) handleResetHabits(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, habitsOutput, error) {
	s.app.Habits.ResetAllHabits()
	if err := s.app.PersistErr(); err != nil {
		return nil, habitsOutput{}, err
	}
	return nil, habitsOutput{Habits: s.app.Habits.Habits()}, nil
}

func (s *Server) handleDailyProgress(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, progressOutput, error) {
	habits := s.app.Habits.Habits()
	out := progressOutput{
		Progress: tracker.DailyProgress(habits),
		Total:    len(habits),
	}
	for _, h := range habits {
		if h.IsComplete() {
			out.Completed++
		}
	}
	return nil, out, nil
}

func (s *Server) handleListMeals(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, mealsOutput, error) {
	return nil, mealsOutput{Meals: s.app.Meals.Meals()}, nil
}

func (s *Server) handleAddMeal(ctx context.Context, req *mcp.CallToolRequest, input addMealInput) (*mcp.CallToolResult, mealOutput, error) {
	if input.Name == "" {
		return nil, mealOutput{}, fmt.Errorf("name is required")
	}
	if input.Calories < 0 || input.Protein < 0 || input.Carbs < 0 || input.Fat < 0 {
		return nil, mealOutput{}, fmt.Errorf("nutrition values must not be negative")
	}

	m := s.app.Meals.AddMeal(models.MealSpec{
		Name:     input.Name,
		Time:     input.Time,
		Calories: input.Calories,
		Protein:  input.Protein,
		Carbs:    input.Carbs,
		Fat:      input.Fat,
		Image:    input.Image,
	})
	if err := s.app.PersistErr(); err != nil {
		return nil, mealOutput{}, err
	}

	return nil, mealOutput{
		Meal:    m,
		Message: fmt.Sprintf("Added %s: %g kcal (ID: %s)", m.Name, m.Calories, m.ID),
	}, nil
}

func (s *Server) handleUpdateMeal(ctx context.Context, req *mcp.CallToolRequest, input updateMealInput) (*mcp.CallToolResult, mealOutput, error) {
	id, err := s.app.Meals.ResolveID(input.ID)
	if err != nil {
		return nil, mealOutput{}, fmt.Errorf("meal %w", err)
	}

	patch := models.MealPatch{
		Name:     input.Name,
		Time:     input.Time,
		Calories: input.Calories,
		Protein:  input.Protein,
		Carbs:    input.Carbs,
		Fat:      input.Fat,
		Image:    input.Image,
	}
	if patch.IsEmpty() {
		return nil, mealOutput{}, fmt.Errorf("no fields to update")
	}

	s.app.Meals.UpdateMeal(id, patch)
	if err := s.app.PersistErr(); err != nil {
		return nil, mealOutput{}, err
	}

	m, _ := s.app.Meals.Get(id)
	return nil, mealOutput{
		Meal:    m,
		Message: fmt.Sprintf("Updated meal: %s", m.Name),
	}, nil
}

func (s *Server) handleDeleteMeal(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := s.app.Meals.ResolveID(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("meal %w", err)
	}
	s.app.Meals.DeleteMeal(id)
	if err := s.app.PersistErr(); err != nil {
		return nil, simpleOutput{}, err
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted meal: %s", id),
	}, nil
}

func (s *Server) handleMealTotals(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, models.Nutrition, error) {
	return nil, s.app.Meals.Totals(), nil
}

func (s *Server) handleListNotifications(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, tracker.NotificationSnapshot, error) {
	return nil, s.app.Notifications.Snapshot(), nil
}

func (s *Server) handleToggleNotification(ctx context.Context, req *mcp.CallToolRequest, input notificationIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	if !s.app.Notifications.ToggleRead(input.ID) {
		return nil, simpleOutput{}, fmt.Errorf("notification not found: %s", input.ID)
	}
	if err := s.app.PersistErr(); err != nil {
		return nil, simpleOutput{}, err
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Toggled %s (%d unread)", input.ID, s.app.Notifications.UnreadCount()),
	}, nil
}

func (s *Server) handleMarkAllRead(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, simpleOutput, error) {
	s.app.Notifications.MarkAllAsRead()
	if err := s.app.PersistErr(); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: "All notifications marked as read"}, nil
}

func (s *Server) handleDeleteNotification(ctx context.Context, req *mcp.CallToolRequest, input notificationIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	if !s.app.Notifications.DeleteNotification(input.ID) {
		return nil, simpleOutput{}, fmt.Errorf("notification not found: %s", input.ID)
	}
	if err := s.app.PersistErr(); err != nil {
		return nil, simpleOutput{}, err
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted notification: %s", input.ID),
	}, nil
}

func (s *Server) handleClearNotifications(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, simpleOutput, error) {
	s.app.Notifications.ClearAllNotifications()
	if err := s.app.PersistErr(); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: "All notifications cleared"}, nil
}

func (s *Server) handleDismissAchievement(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, simpleOutput, error) {
	a, ok := s.app.Notifications.CurrentAchievement()
	if !ok {
		return nil, simpleOutput{Message: "No achievement to dismiss"}, nil
	}
	s.app.Notifications.DismissAchievement()
	if err := s.app.PersistErr(); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Dismissed achievement: %s", a.Title)}, nil
}
