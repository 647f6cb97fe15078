// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers.
package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/habits/internal/app"
	"github.com/harperreed/habits/internal/config"
	"github.com/harperreed/habits/internal/storage"
	"github.com/harperreed/habits/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestServer creates a seeded app on a temp database and wraps it.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "habits-mcp-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	db, err := storage.Open(filepath.Join(tmpDir, storage.DBFileName))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	now := time.Date(2024, 6, 12, 9, 15, 0, 0, time.Local)
	a, err := app.New(config.Default(), db,
		app.WithClock(tracker.FixedClock(now)),
		app.WithIDs(tracker.SequentialIDs(100)))
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	server, err := NewServer(a)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func TestNewServer(t *testing.T) {
	server := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.app == nil {
		t.Error("Expected non-nil app")
	}
}

func TestHandleListHabits(t *testing.T) {
	server := setupTestServer(t)

	_, out, err := server.handleListHabits(context.Background(), &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("handleListHabits failed: %v", err)
	}
	if len(out.Habits) != 5 {
		t.Errorf("Expected 5 habits, got %d", len(out.Habits))
	}
}

func TestHandleUpdateHabit(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     updateHabitInput
		wantErr   bool
		errSubstr string
	}{
		{name: "valid", input: updateHabitInput{ID: "1", Value: 2300}},
		{name: "negative value", input: updateHabitInput{ID: "1", Value: -1}, wantErr: true, errSubstr: "negative"},
		{name: "unknown id", input: updateHabitInput{ID: "nope", Value: 1}, wantErr: true, errSubstr: "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleUpdateHabit(ctx, &mcp.CallToolRequest{}, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				} else if !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("Expected error containing %q, got %q", tt.errSubstr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.Habit.Current != tt.input.Value {
				t.Errorf("Current = %v, want %v", out.Habit.Current, tt.input.Value)
			}
			if out.Habit.Streak != 4 {
				t.Errorf("Streak = %d, want 4", out.Habit.Streak)
			}
		})
	}
}

func TestHandleUpdateHabitRederivesNotifications(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleUpdateHabit(ctx, &mcp.CallToolRequest{}, updateHabitInput{ID: "1", Value: 500}); err != nil {
		t.Fatalf("handleUpdateHabit failed: %v", err)
	}

	_, snap, _ := server.handleListNotifications(ctx, &mcp.CallToolRequest{}, emptyInput{})
	found := false
	for _, n := range snap.Notifications {
		if n.ID == tracker.IDWaterReminder {
			found = true
		}
	}
	if !found {
		t.Error("Expected water reminder after low water update")
	}
}

func TestHandleAddHabit(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   addHabitInput
		wantErr bool
	}{
		{name: "valid", input: addHabitInput{Name: "Stretch", Target: 10, Unit: "min"}},
		{name: "missing name", input: addHabitInput{Target: 10}, wantErr: true},
		{name: "zero target", input: addHabitInput{Name: "Stretch"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleAddHabit(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.Habit.ID == "" {
				t.Error("Expected assigned ID")
			}
			if len(out.Habit.History) != 7 {
				t.Errorf("Expected 7 history slots, got %d", len(out.Habit.History))
			}
		})
	}
}

func TestHandleDeleteHabit(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleDeleteHabit(ctx, &mcp.CallToolRequest{}, idInput{ID: "5"}); err != nil {
		t.Fatalf("handleDeleteHabit failed: %v", err)
	}
	if got := len(server.app.Habits.Habits()); got != 4 {
		t.Errorf("Expected 4 habits, got %d", got)
	}

	if _, _, err := server.handleDeleteHabit(ctx, &mcp.CallToolRequest{}, idInput{ID: "5"}); err == nil {
		t.Error("Expected error deleting missing habit")
	}
}

func TestHandleResetAndProgress(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, before, _ := server.handleDailyProgress(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if before.Progress != 20 || before.Completed != 1 || before.Total != 5 {
		t.Errorf("Unexpected progress before reset: %+v", before)
	}

	_, out, err := server.handleResetHabits(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("handleResetHabits failed: %v", err)
	}
	for _, h := range out.Habits {
		if h.Current != 0 {
			t.Errorf("%s not reset: %v", h.Name, h.Current)
		}
	}

	_, after, _ := server.handleDailyProgress(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if after.Progress != 0 {
		t.Errorf("Progress after reset = %v, want 0", after.Progress)
	}
}

func TestHandleMeals(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, added, err := server.handleAddMeal(ctx, &mcp.CallToolRequest{}, addMealInput{Name: "Snack", Calories: 150})
	if err != nil {
		t.Fatalf("handleAddMeal failed: %v", err)
	}

	calories := 200.0
	_, updated, err := server.handleUpdateMeal(ctx, &mcp.CallToolRequest{}, updateMealInput{ID: added.Meal.ID, Calories: &calories})
	if err != nil {
		t.Fatalf("handleUpdateMeal failed: %v", err)
	}
	if updated.Meal.Calories != 200 || updated.Meal.Name != "Snack" {
		t.Errorf("Unexpected meal after update: %+v", updated.Meal)
	}

	_, totals, _ := server.handleMealTotals(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if totals.Calories != 1520 {
		t.Errorf("Total calories = %v, want 1520", totals.Calories)
	}

	if _, _, err := server.handleUpdateMeal(ctx, &mcp.CallToolRequest{}, updateMealInput{ID: added.Meal.ID}); err == nil {
		t.Error("Expected error for empty update")
	}
	if _, _, err := server.handleAddMeal(ctx, &mcp.CallToolRequest{}, addMealInput{Name: "Bad", Fat: -1}); err == nil {
		t.Error("Expected error for negative fat")
	}

	if _, _, err := server.handleDeleteMeal(ctx, &mcp.CallToolRequest{}, idInput{ID: added.Meal.ID}); err != nil {
		t.Fatalf("handleDeleteMeal failed: %v", err)
	}
	_, list, _ := server.handleListMeals(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if len(list.Meals) != 3 {
		t.Errorf("Expected 3 meals, got %d", len(list.Meals))
	}
}

func TestHandleNotifications(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, snap, _ := server.handleListNotifications(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if snap.UnreadCount == 0 {
		t.Fatal("Expected unread notifications after seeding")
	}

	if _, _, err := server.handleToggleNotification(ctx, &mcp.CallToolRequest{}, notificationIDInput{ID: tracker.IDNewFeature}); err != nil {
		t.Fatalf("handleToggleNotification failed: %v", err)
	}
	if got := server.app.Notifications.UnreadCount(); got != snap.UnreadCount-1 {
		t.Errorf("Unread = %d, want %d", got, snap.UnreadCount-1)
	}

	if _, _, err := server.handleToggleNotification(ctx, &mcp.CallToolRequest{}, notificationIDInput{ID: "missing"}); err == nil {
		t.Error("Expected error toggling missing notification")
	}

	if _, _, err := server.handleMarkAllRead(ctx, &mcp.CallToolRequest{}, emptyInput{}); err != nil {
		t.Fatalf("handleMarkAllRead failed: %v", err)
	}
	if got := server.app.Notifications.UnreadCount(); got != 0 {
		t.Errorf("Unread after mark all = %d", got)
	}

	if _, _, err := server.handleDeleteNotification(ctx, &mcp.CallToolRequest{}, notificationIDInput{ID: tracker.IDNewFeature}); err != nil {
		t.Fatalf("handleDeleteNotification failed: %v", err)
	}
	if _, _, err := server.handleDeleteNotification(ctx, &mcp.CallToolRequest{}, notificationIDInput{ID: tracker.IDNewFeature}); err == nil {
		t.Error("Expected error deleting twice")
	}

	if _, _, err := server.handleClearNotifications(ctx, &mcp.CallToolRequest{}, emptyInput{}); err != nil {
		t.Fatalf("handleClearNotifications failed: %v", err)
	}
	if n := len(server.app.Notifications.Notifications()); n != 0 {
		t.Errorf("Expected no notifications, got %d", n)
	}
}

func TestHandleDismissAchievement(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()

	_, out, err := server.handleDismissAchievement(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if err != nil {
		t.Fatalf("handleDismissAchievement failed: %v", err)
	}
	if !strings.Contains(out.Message, "No achievement") {
		t.Errorf("Unexpected message: %s", out.Message)
	}

	if _, _, err := server.handleUpdateHabit(ctx, &mcp.CallToolRequest{}, updateHabitInput{ID: "2", Value: 10000}); err != nil {
		t.Fatalf("handleUpdateHabit failed: %v", err)
	}
	if _, ok := server.app.Notifications.CurrentAchievement(); !ok {
		t.Fatal("Expected achievement after step goal")
	}

	_, out, _ = server.handleDismissAchievement(ctx, &mcp.CallToolRequest{}, emptyInput{})
	if !strings.Contains(out.Message, "Active Stepper") {
		t.Errorf("Unexpected message: %s", out.Message)
	}
	if _, ok := server.app.Notifications.CurrentAchievement(); ok {
		t.Error("Expected achievement dismissed")
	}
}

func TestHandleDashboardResource(t *testing.T) {
	server := setupTestServer(t)

	result, err := server.handleDashboardResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleDashboardResource failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("Expected 1 content, got %d", len(result.Contents))
	}
	if result.Contents[0].URI != dashboardURI {
		t.Errorf("URI = %s", result.Contents[0].URI)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &payload); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if _, ok := payload["generated_at"]; !ok {
		t.Error("Missing generated_at")
	}
	dashboard, ok := payload["dashboard"].(map[string]interface{})
	if !ok {
		t.Fatal("Missing dashboard")
	}
	if dashboard["progress"] != float64(20) {
		t.Errorf("progress = %v, want 20", dashboard["progress"])
	}
}

func TestHandleNotificationsResource(t *testing.T) {
	server := setupTestServer(t)

	result, err := server.handleNotificationsResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleNotificationsResource failed: %v", err)
	}

	var snap tracker.NotificationSnapshot
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &snap); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if len(snap.Notifications) == 0 {
		t.Error("Expected notifications")
	}
	if snap.UnreadCount != len(snap.Notifications) {
		t.Errorf("Fresh notifications should all be unread: %d of %d", snap.UnreadCount, len(snap.Notifications))
	}
}
