// ABOUTME: Habit persistence for SQLite storage.
// ABOUTME: History is stored as a JSON column; list order is kept by position.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/harperreed/habits/internal/models"
)

// ListHabits returns all habits in list order.
func (d *DB) ListHabits() ([]models.Habit, error) {
	rows, err := d.db.Query(`
		SELECT id, name, icon, target, unit, current, streak, history, color
		FROM habits
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var h models.Habit
		var history string
		if err := rows.Scan(&h.ID, &h.Name, &h.Icon, &h.Target, &h.Unit, &h.Current, &h.Streak, &history, &h.Color); err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		if err := json.Unmarshal([]byte(history), &h.History); err != nil {
			return nil, fmt.Errorf("decode history for habit %s: %w", h.ID, err)
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// ReplaceHabits overwrites the stored habit list with habits.
func (d *DB) ReplaceHabits(habits []models.Habit) error {
	return d.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM habits"); err != nil {
			return fmt.Errorf("clear habits: %w", err)
		}
		stmt, err := tx.Prepare(`
			INSERT INTO habits (id, position, name, icon, target, unit, current, streak, history, color)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("prepare habit insert: %w", err)
		}
		defer stmt.Close()

		for i, h := range habits {
			history, err := json.Marshal(h.History)
			if err != nil {
				return fmt.Errorf("encode history for habit %s: %w", h.ID, err)
			}
			if _, err := stmt.Exec(h.ID, i, h.Name, h.Icon, h.Target, h.Unit, h.Current, h.Streak, string(history), h.Color); err != nil {
				return fmt.Errorf("insert habit %s: %w", h.ID, err)
			}
		}
		return nil
	})
}
