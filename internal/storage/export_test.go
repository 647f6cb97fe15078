// ABOUTME: Tests for export and import functionality.
// ABOUTME: Verifies JSON, YAML, and Markdown export formats.
package storage

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/harperreed/habits/internal/models"
	"gopkg.in/yaml.v3"
)

func populate(t *testing.T, db *DB) {
	t.Helper()
	if err := db.ReplaceHabits(sampleHabits()); err != nil {
		t.Fatalf("ReplaceHabits failed: %v", err)
	}
	if err := db.ReplaceMeals(sampleMeals()); err != nil {
		t.Fatalf("ReplaceMeals failed: %v", err)
	}
	notifs := []models.Notification{{ID: "new-feature", Title: "New Feature Available!", Type: models.NotificationAlert, Icon: "🎉", Time: "09:30"}}
	if err := db.ReplaceNotifications(notifs); err != nil {
		t.Fatalf("ReplaceNotifications failed: %v", err)
	}
	if err := SaveAchievement(db, &models.Achievement{ID: "active-stepper", Title: "Active Stepper", Tier: models.TierGold}); err != nil {
		t.Fatalf("SaveAchievement failed: %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	populate(t, db)

	data, err := ExportJSON(db)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.Version != ExportVersion {
		t.Errorf("Expected version %s, got %s", ExportVersion, export.Version)
	}
	if export.Tool != "habits" {
		t.Errorf("Expected tool habits, got %s", export.Tool)
	}
	if len(export.Habits) != 2 || len(export.Meals) != 2 || len(export.Notifications) != 1 {
		t.Errorf("Unexpected counts: %d habits, %d meals, %d notifications",
			len(export.Habits), len(export.Meals), len(export.Notifications))
	}
	if export.Achievement == nil || export.Achievement.ID != "active-stepper" {
		t.Errorf("Achievement missing from export: %+v", export.Achievement)
	}
}

func TestExportYAML(t *testing.T) {
	db := setupTestDB(t)
	populate(t, db)

	data, err := ExportYAML(db)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	if parsed["tool"] != "habits" {
		t.Errorf("Expected tool habits, got %v", parsed["tool"])
	}
	totals, ok := parsed["totals"].(map[string]any)
	if !ok {
		t.Fatalf("Expected totals map, got %T", parsed["totals"])
	}
	if totals["calories"] != 900 {
		t.Errorf("Expected 900 total calories, got %v", totals["calories"])
	}
	if !strings.Contains(string(data), "Wed: 2400") {
		t.Errorf("Expected flattened history in YAML:\n%s", data)
	}
}

func TestExportMarkdown(t *testing.T) {
	db := setupTestDB(t)
	populate(t, db)

	md, err := ExportMarkdown(db)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	for _, want := range []string{
		"# Habits Export",
		"## Habits",
		"| 💧 Water | 1200 ml | 2300 | 4 |",
		"## Meals",
		"| | **Total** | 900 | 57g | 105g | 30g |",
		"- [ ] 🎉 **New Feature Available!** (09:30)",
		"**Active Stepper** (gold)",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q:\n%s", want, md)
		}
	}
}

func TestImportJSONReplaces(t *testing.T) {
	src := setupTestDB(t)
	populate(t, src)
	data, err := ExportJSON(src)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	dst := setupTestDB(t)
	if err := dst.ReplaceMeals([]models.Meal{{ID: "stale", Name: "Old"}}); err != nil {
		t.Fatalf("ReplaceMeals failed: %v", err)
	}
	if err := ImportJSON(dst, data); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	meals, _ := dst.ListMeals()
	if len(meals) != 2 || meals[0].ID != "m-1" {
		t.Errorf("Expected imported meals to replace existing, got %+v", meals)
	}
	a, _ := LoadAchievement(dst)
	if a == nil {
		t.Error("Expected achievement to be imported")
	}
}

func TestImportJSONInvalid(t *testing.T) {
	db := setupTestDB(t)
	if err := ImportJSON(db, []byte("{not json")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
