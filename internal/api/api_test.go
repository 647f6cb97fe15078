// ABOUTME: Tests for the HTTP API: status codes, validation and engine effects.
// ABOUTME: Runs the router through httptest against a seeded SQLite app.
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/habits/internal/app"
	"github.com/harperreed/habits/internal/config"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/storage"
	"github.com/harperreed/habits/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) (*API, http.Handler) {
	t.Helper()
	repo, err := storage.Open(filepath.Join(t.TempDir(), storage.DBFileName))
	require.NoError(t, err)

	// A Wednesday morning: no lunch reminder, no weekly summary.
	now := time.Date(2024, 6, 12, 9, 15, 0, 0, time.Local)
	a, err := app.New(config.Default(), repo,
		app.WithClock(tracker.FixedClock(now)),
		app.WithIDs(tracker.SequentialIDs(100)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	api := New(a, nil)
	return api, api.Router()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[errorResponse](t, rec).Error.Code
}

func TestHealth(t *testing.T) {
	_, h := newTestAPI(t)
	rec := do(t, h, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestListHabits(t *testing.T) {
	_, h := newTestAPI(t)
	rec := do(t, h, http.MethodGet, "/api/habits", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	habits := decode[[]models.Habit](t, rec)
	require.Len(t, habits, 5)
	assert.Equal(t, "Water", habits[0].Name)
}

func TestCreateHabit(t *testing.T) {
	_, h := newTestAPI(t)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"valid", map[string]any{"name": "Stretching", "target": 15, "unit": "min"}, http.StatusCreated, ""},
		{"missing name", map[string]any{"target": 15}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"zero target", map[string]any{"name": "Stretching", "target": 0}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"negative current", map[string]any{"name": "Stretching", "target": 5, "current": -1}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad json", "{not json", http.StatusBadRequest, "INVALID_JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/habits", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(t, rec))
			}
		})
	}
}

func TestCreateHabitAssignsIDAndHistory(t *testing.T) {
	api, h := newTestAPI(t)

	rec := do(t, h, http.MethodPost, "/api/habits", map[string]any{"name": "Stretching", "target": 15})
	require.Equal(t, http.StatusCreated, rec.Code)

	habit := decode[models.Habit](t, rec)
	assert.Equal(t, "101", habit.ID)
	assert.Len(t, habit.History, models.HistoryLength)
	assert.Len(t, api.App.Habits.Habits(), 6)
}

func TestUpdateHabitValue(t *testing.T) {
	api, h := newTestAPI(t)

	rec := do(t, h, http.MethodPut, "/api/habits/2", map[string]any{"value": 10000})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	habit := decode[models.Habit](t, rec)
	assert.Equal(t, float64(10000), habit.Current)
	assert.Equal(t, 3, habit.Streak)

	achievement, ok := api.App.Notifications.CurrentAchievement()
	require.True(t, ok)
	assert.Equal(t, tracker.IDActiveStepper, achievement.ID)

	rec = do(t, h, http.MethodGet, "/api/achievement", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateHabitErrors(t *testing.T) {
	_, h := newTestAPI(t)

	// Two new habits share the prefix "10".
	do(t, h, http.MethodPost, "/api/habits", map[string]any{"name": "A", "target": 1})
	do(t, h, http.MethodPost, "/api/habits", map[string]any{"name": "B", "target": 1})

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"unknown id", "/api/habits/zzz", map[string]any{"value": 1}, http.StatusNotFound},
		{"ambiguous prefix", "/api/habits/10", map[string]any{"value": 1}, http.StatusConflict},
		{"missing value", "/api/habits/1", map[string]any{}, http.StatusBadRequest},
		{"negative value", "/api/habits/1", map[string]any{"value": -5}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestDeleteHabit(t *testing.T) {
	api, h := newTestAPI(t)

	rec := do(t, h, http.MethodDelete, "/api/habits/4", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Len(t, api.App.Habits.Habits(), 4)

	rec = do(t, h, http.MethodDelete, "/api/habits/4", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetHabitsAndProgress(t *testing.T) {
	_, h := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/progress", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(20), decode[map[string]float64](t, rec)["progress"])

	rec = do(t, h, http.MethodPost, "/api/habits/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, habit := range decode[[]models.Habit](t, rec) {
		assert.Zero(t, habit.Current, habit.Name)
	}

	rec = do(t, h, http.MethodGet, "/api/progress", nil)
	assert.Equal(t, float64(0), decode[map[string]float64](t, rec)["progress"])
}

func TestMeals(t *testing.T) {
	_, h := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/meals/totals", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Nutrition{Calories: 1320, Protein: 87, Carbs: 145, Fat: 45}, decode[models.Nutrition](t, rec))

	rec = do(t, h, http.MethodPost, "/api/meals", map[string]any{"name": "Snack", "calories": 180, "protein": 6})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	snack := decode[models.Meal](t, rec)
	assert.Equal(t, "101", snack.ID)

	rec = do(t, h, http.MethodPatch, "/api/meals/"+snack.ID, map[string]any{"calories": 200})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[models.Meal](t, rec)
	assert.Equal(t, float64(200), updated.Calories)
	assert.Equal(t, "Snack", updated.Name)
	assert.Equal(t, float64(6), updated.Protein)

	rec = do(t, h, http.MethodGet, "/api/meals/totals", nil)
	assert.Equal(t, float64(1520), decode[models.Nutrition](t, rec).Calories)

	rec = do(t, h, http.MethodPatch, "/api/meals/"+snack.ID, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/meals/"+snack.ID, map[string]any{"fat": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/meals/"+snack.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/meals/"+snack.ID, map[string]any{"calories": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationReadState(t *testing.T) {
	_, h := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	before := decode[tracker.NotificationSnapshot](t, rec)
	require.NotZero(t, before.UnreadCount)

	rec = do(t, h, http.MethodPost, "/api/notifications/"+tracker.IDNewFeature+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, before.UnreadCount-1, decode[tracker.NotificationSnapshot](t, rec).UnreadCount)

	rec = do(t, h, http.MethodPost, "/api/notifications/"+tracker.IDNewFeature+"/unread", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, before.UnreadCount, decode[tracker.NotificationSnapshot](t, rec).UnreadCount)

	rec = do(t, h, http.MethodPost, "/api/notifications/missing/read", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))

	rec = do(t, h, http.MethodPost, "/api/notifications/read-all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decode[tracker.NotificationSnapshot](t, rec).UnreadCount)
}

func TestNotificationDeleteAndClear(t *testing.T) {
	api, h := newTestAPI(t)

	rec := do(t, h, http.MethodDelete, "/api/notifications/"+tracker.IDSleepWarning, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/notifications/"+tracker.IDSleepWarning, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/notifications", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, api.App.Notifications.Notifications())
}

func TestAchievementDismiss(t *testing.T) {
	_, h := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/achievement", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	do(t, h, http.MethodPut, "/api/habits/2", map[string]any{"value": 12000})
	rec = do(t, h, http.MethodGet, "/api/achievement", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.TierGold, decode[models.Achievement](t, rec).Tier)

	rec = do(t, h, http.MethodDelete, "/api/achievement", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/achievement", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboard(t *testing.T) {
	_, h := newTestAPI(t)

	rec := do(t, h, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	d := decode[app.Dashboard](t, rec)
	assert.Equal(t, "Jenny Wilson", d.Profile.Name)
	assert.Len(t, d.Habits, 5)
	assert.Equal(t, float64(1200), d.Water.Current)
	assert.Equal(t, float64(2300), d.Water.Target)
	assert.Equal(t, float64(1320), d.Calories.Current)
}

func TestWebsocketNotMountedWithoutHub(t *testing.T) {
	_, h := newTestAPI(t)
	rec := do(t, h, http.MethodGet, "/ws", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
