// ABOUTME: Notification and settings persistence for SQLite storage.
// ABOUTME: The pending achievement is kept as a JSON setting.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harperreed/habits/internal/models"
)

// SettingAchievement is the settings key holding the pending achievement.
const SettingAchievement = "achievement"

// SettingDerivedHabits holds the fingerprint of the habit list the stored
// notifications were last derived from.
const SettingDerivedHabits = "derived_habits"

// ListNotifications returns all notifications in list order.
func (d *DB) ListNotifications() ([]models.Notification, error) {
	rows, err := d.db.Query(`
		SELECT id, title, message, type, icon, time, is_read
		FROM notifications
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var notifType string
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &notifType, &n.Icon, &n.Time, &n.IsRead); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = models.NotificationType(notifType)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// ReplaceNotifications overwrites the stored notification list.
func (d *DB) ReplaceNotifications(notifications []models.Notification) error {
	return d.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM notifications"); err != nil {
			return fmt.Errorf("clear notifications: %w", err)
		}
		stmt, err := tx.Prepare(`
			INSERT INTO notifications (id, position, title, message, type, icon, time, is_read)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("prepare notification insert: %w", err)
		}
		defer stmt.Close()

		for i, n := range notifications {
			if _, err := stmt.Exec(n.ID, i, n.Title, n.Message, string(n.Type), n.Icon, n.Time, n.IsRead); err != nil {
				return fmt.Errorf("insert notification %s: %w", n.ID, err)
			}
		}
		return nil
	})
}

// GetSetting returns the value stored under key.
func (d *DB) GetSetting(key string) (string, bool, error) {
	var value string
	err := d.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting stores value under key. An empty value removes the key.
func (d *DB) SetSetting(key, value string) error {
	if value == "" {
		if _, err := d.db.Exec("DELETE FROM settings WHERE key = ?", key); err != nil {
			return fmt.Errorf("delete setting %s: %w", key, err)
		}
		return nil
	}
	_, err := d.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// LoadAchievement reads the pending achievement from any Repository.
func LoadAchievement(r Repository) (*models.Achievement, error) {
	raw, ok, err := r.GetSetting(SettingAchievement)
	if err != nil || !ok {
		return nil, err
	}
	var a models.Achievement
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, fmt.Errorf("decode achievement: %w", err)
	}
	return &a, nil
}

// SaveAchievement writes the pending achievement, or clears it when a is nil.
func SaveAchievement(r Repository, a *models.Achievement) error {
	if a == nil {
		return r.SetSetting(SettingAchievement, "")
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode achievement: %w", err)
	}
	return r.SetSetting(SettingAchievement, string(data))
}
