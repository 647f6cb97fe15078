// ABOUTME: Data migration between habit storage backends.
// ABOUTME: Copies habits, meals, notifications, and the pending achievement.

package storage

import (
	"fmt"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Habits        int
	Meals         int
	Notifications int
	Achievement   bool
}

// MigrateData copies all data from src to dst storage, overwriting dst.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	data, err := src.GetAllData()
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	if err := dst.ImportData(data); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	return &MigrateSummary{
		Habits:        len(data.Habits),
		Meals:         len(data.Meals),
		Notifications: len(data.Notifications),
		Achievement:   data.Achievement != nil,
	}, nil
}

// IsEmpty reports whether r holds no habits and no meals.
func IsEmpty(r Repository) (bool, error) {
	habits, err := r.ListHabits()
	if err != nil {
		return false, fmt.Errorf("list habits: %w", err)
	}
	meals, err := r.ListMeals()
	if err != nil {
		return false, fmt.Errorf("list meals: %w", err)
	}
	return len(habits) == 0 && len(meals) == 0, nil
}
