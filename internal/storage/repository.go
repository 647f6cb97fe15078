// ABOUTME: Repository interface for habit dashboard storage.
// ABOUTME: Lists are persisted whole, in order, mirroring the in-memory stores.
package storage

import (
	"github.com/harperreed/habits/internal/models"
)

// Repository defines the storage interface for dashboard state.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Habit operations
	ListHabits() ([]models.Habit, error)
	ReplaceHabits(habits []models.Habit) error

	// Meal operations
	ListMeals() ([]models.Meal, error)
	ReplaceMeals(meals []models.Meal) error

	// Notification operations
	ListNotifications() ([]models.Notification, error)
	ReplaceNotifications(notifications []models.Notification) error

	// Settings hold small JSON or string values keyed by name.
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
