// ABOUTME: Habit, meal and notification lists for Charm KV storage.
// ABOUTME: Each record is one key; a stored position keeps list order.
package charm

import (
	"fmt"
	"sort"

	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/storage"
)

// record wraps a stored item with its list position.
type record[T any] struct {
	Position int `json:"position"`
	Item     T   `json:"item"`
}

func encodeList[T any](prefix string, items []T, id func(T) string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(items))
	for i, item := range items {
		data, err := marshalJSON(record[T]{Position: i, Item: item})
		if err != nil {
			return nil, err
		}
		out[prefix+id(item)] = data
	}
	return out, nil
}

func decodeList[T any](values [][]byte) []T {
	records := make([]*record[T], 0, len(values))
	for _, data := range values {
		r, err := unmarshalJSON[record[T]](data)
		if err != nil {
			continue // Skip invalid entries
		}
		records = append(records, r)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Position < records[j].Position
	})

	items := make([]T, 0, len(records))
	for _, r := range records {
		items = append(items, r.Item)
	}
	return items
}

// ListHabits returns all habits in list order.
func (c *Client) ListHabits() ([]models.Habit, error) {
	values, err := c.listByPrefix(HabitPrefix)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return decodeList[models.Habit](values), nil
}

// ReplaceHabits overwrites the stored habit list.
func (c *Client) ReplaceHabits(habits []models.Habit) error {
	records, err := encodeList(HabitPrefix, habits, func(h models.Habit) string { return h.ID })
	if err != nil {
		return fmt.Errorf("marshal habits: %w", err)
	}
	if err := c.replacePrefix(HabitPrefix, records); err != nil {
		return fmt.Errorf("replace habits: %w", err)
	}
	return nil
}

// ListMeals returns all meals in list order.
func (c *Client) ListMeals() ([]models.Meal, error) {
	values, err := c.listByPrefix(MealPrefix)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	return decodeList[models.Meal](values), nil
}

// ReplaceMeals overwrites the stored meal list.
func (c *Client) ReplaceMeals(meals []models.Meal) error {
	records, err := encodeList(MealPrefix, meals, func(m models.Meal) string { return m.ID })
	if err != nil {
		return fmt.Errorf("marshal meals: %w", err)
	}
	if err := c.replacePrefix(MealPrefix, records); err != nil {
		return fmt.Errorf("replace meals: %w", err)
	}
	return nil
}

// ListNotifications returns all notifications in list order.
func (c *Client) ListNotifications() ([]models.Notification, error) {
	values, err := c.listByPrefix(NotificationPrefix)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return decodeList[models.Notification](values), nil
}

// ReplaceNotifications overwrites the stored notification list.
func (c *Client) ReplaceNotifications(notifications []models.Notification) error {
	records, err := encodeList(NotificationPrefix, notifications, func(n models.Notification) string { return n.ID })
	if err != nil {
		return fmt.Errorf("marshal notifications: %w", err)
	}
	if err := c.replacePrefix(NotificationPrefix, records); err != nil {
		return fmt.Errorf("replace notifications: %w", err)
	}
	return nil
}

// GetSetting returns the value stored under key.
func (c *Client) GetSetting(key string) (string, bool, error) {
	data, ok, err := c.get(SettingPrefix + key)
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return string(data), ok, nil
}

// SetSetting stores value under key. An empty value removes the key.
func (c *Client) SetSetting(key, value string) error {
	if value == "" {
		if _, ok, err := c.get(SettingPrefix + key); err != nil || !ok {
			return err
		}
		return c.delete(SettingPrefix + key)
	}
	if err := c.set(SettingPrefix+key, []byte(value)); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// GetAllData retrieves all data for export.
func (c *Client) GetAllData() (*storage.ExportData, error) {
	return storage.CollectData(c)
}

// ImportData replaces stored data with an export.
func (c *Client) ImportData(data *storage.ExportData) error {
	return storage.RestoreData(c, data)
}

var _ storage.Repository = (*Client)(nil)
