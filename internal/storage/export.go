// ABOUTME: Export and import functionality for dashboard data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats for any Repository.
package storage

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/habits/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for dashboard data.
type ExportData struct {
	Version       string                `json:"version" yaml:"version"`
	ExportedAt    time.Time             `json:"exported_at" yaml:"exported_at"`
	Tool          string                `json:"tool" yaml:"tool"`
	Habits        []models.Habit        `json:"habits" yaml:"habits"`
	Meals         []models.Meal         `json:"meals" yaml:"meals"`
	Notifications []models.Notification `json:"notifications" yaml:"notifications"`
	Achievement   *models.Achievement   `json:"achievement,omitempty" yaml:"achievement,omitempty"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	return CollectData(d)
}

// ImportData replaces stored data with an export.
func (d *DB) ImportData(data *ExportData) error {
	return RestoreData(d, data)
}

// CollectData reads every list from r into an ExportData.
func CollectData(r Repository) (*ExportData, error) {
	habits, err := r.ListHabits()
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	meals, err := r.ListMeals()
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	notifications, err := r.ListNotifications()
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	achievement, err := LoadAchievement(r)
	if err != nil {
		return nil, fmt.Errorf("load achievement: %w", err)
	}

	return &ExportData{
		Version:       ExportVersion,
		ExportedAt:    time.Now(),
		Tool:          "habits",
		Habits:        habits,
		Meals:         meals,
		Notifications: notifications,
		Achievement:   achievement,
	}, nil
}

// RestoreData overwrites every list in r with the contents of data.
func RestoreData(r Repository, data *ExportData) error {
	if data == nil {
		return fmt.Errorf("import: no data")
	}
	if err := r.ReplaceHabits(data.Habits); err != nil {
		return fmt.Errorf("import habits: %w", err)
	}
	if err := r.ReplaceMeals(data.Meals); err != nil {
		return fmt.Errorf("import meals: %w", err)
	}
	if err := r.ReplaceNotifications(data.Notifications); err != nil {
		return fmt.Errorf("import notifications: %w", err)
	}
	if err := SaveAchievement(r, data.Achievement); err != nil {
		return fmt.Errorf("import achievement: %w", err)
	}
	return nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(r Repository) ([]byte, error) {
	data, err := r.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func ExportYAML(r Repository) ([]byte, error) {
	data, err := r.GetAllData()
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version       string                `yaml:"version"`
		ExportedAt    string                `yaml:"exported_at"`
		Tool          string                `yaml:"tool"`
		Habits        []yamlHabit           `yaml:"habits"`
		Meals         []models.Meal         `yaml:"meals"`
		Totals        models.Nutrition      `yaml:"totals"`
		Notifications []models.Notification `yaml:"notifications"`
		Achievement   *models.Achievement   `yaml:"achievement,omitempty"`
	}{
		Version:       data.Version,
		ExportedAt:    data.ExportedAt.Format(time.RFC3339),
		Tool:          data.Tool,
		Habits:        make([]yamlHabit, 0, len(data.Habits)),
		Meals:         data.Meals,
		Notifications: data.Notifications,
		Achievement:   data.Achievement,
	}

	for _, m := range data.Meals {
		yamlData.Totals.Calories += m.Calories
		yamlData.Totals.Protein += m.Protein
		yamlData.Totals.Carbs += m.Carbs
		yamlData.Totals.Fat += m.Fat
	}

	// History is flattened to a day -> value map for readability.
	for _, h := range data.Habits {
		yh := yamlHabit{
			ID:      h.ID,
			Name:    h.Name,
			Target:  h.Target,
			Current: h.Current,
			Unit:    h.Unit,
			Streak:  h.Streak,
			History: make(map[string]float64, len(h.History)),
		}
		for _, e := range h.History {
			yh.History[e.Date] = e.Value
		}
		yamlData.Habits = append(yamlData.Habits, yh)
	}

	return yaml.Marshal(yamlData)
}

type yamlHabit struct {
	ID      string             `yaml:"id"`
	Name    string             `yaml:"name"`
	Target  float64            `yaml:"target"`
	Current float64            `yaml:"current"`
	Unit    string             `yaml:"unit,omitempty"`
	Streak  int                `yaml:"streak"`
	History map[string]float64 `yaml:"history"`
}

// ExportMarkdown exports data as Markdown tables.
func ExportMarkdown(r Repository) (string, error) {
	data, err := r.GetAllData()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := data.ExportedAt

	sb.WriteString(fmt.Sprintf("# Habits Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Habits\n\n")
	sb.WriteString("| Habit | Today | Target | Streak | " + strings.Join(models.WeekDays[:], " | ") + " |\n")
	sb.WriteString("|-------|-------|--------|--------|" + strings.Repeat("-----|", models.HistoryLength) + "\n")
	for _, h := range data.Habits {
		days := make([]string, 0, len(h.History))
		for _, e := range h.History {
			days = append(days, num(e.Value))
		}
		sb.WriteString(fmt.Sprintf("| %s %s | %s %s | %s | %d | %s |\n",
			h.Icon, h.Name, num(h.Current), h.Unit, num(h.Target), h.Streak, strings.Join(days, " | ")))
	}
	sb.WriteString("\n")

	if len(data.Meals) > 0 {
		var total models.Nutrition
		sb.WriteString("## Meals\n\n")
		sb.WriteString("| Time | Meal | Calories | Protein | Carbs | Fat |\n")
		sb.WriteString("|------|------|----------|---------|-------|-----|\n")
		for _, m := range data.Meals {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %sg | %sg | %sg |\n",
				m.Time, m.Name, num(m.Calories), num(m.Protein), num(m.Carbs), num(m.Fat)))
			total.Calories += m.Calories
			total.Protein += m.Protein
			total.Carbs += m.Carbs
			total.Fat += m.Fat
		}
		sb.WriteString(fmt.Sprintf("| | **Total** | %s | %sg | %sg | %sg |\n\n",
			num(total.Calories), num(total.Protein), num(total.Carbs), num(total.Fat)))
	}

	if len(data.Notifications) > 0 {
		sb.WriteString("## Notifications\n\n")
		for _, n := range data.Notifications {
			mark := " "
			if n.IsRead {
				mark = "x"
			}
			sb.WriteString(fmt.Sprintf("- [%s] %s **%s** (%s) %s\n", mark, n.Icon, n.Title, n.Time, n.Message))
		}
		sb.WriteString("\n")
	}

	if a := data.Achievement; a != nil {
		sb.WriteString(fmt.Sprintf("## Achievement\n\n%s **%s** (%s): %s\n", a.Icon, a.Title, a.Tier, a.Description))
	}

	return sb.String(), nil
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(r Repository, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return r.ImportData(&exportData)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
