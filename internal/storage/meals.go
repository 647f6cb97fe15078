// ABOUTME: Meal persistence for SQLite storage.
// ABOUTME: Implements Repository interface methods for meals.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/harperreed/habits/internal/models"
)

// ListMeals returns all meals in list order.
func (d *DB) ListMeals() ([]models.Meal, error) {
	rows, err := d.db.Query(`
		SELECT id, name, time, calories, protein, carbs, fat, image
		FROM meals
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	var meals []models.Meal
	for rows.Next() {
		var m models.Meal
		if err := rows.Scan(&m.ID, &m.Name, &m.Time, &m.Calories, &m.Protein, &m.Carbs, &m.Fat, &m.Image); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// ReplaceMeals overwrites the stored meal list with meals.
func (d *DB) ReplaceMeals(meals []models.Meal) error {
	return d.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM meals"); err != nil {
			return fmt.Errorf("clear meals: %w", err)
		}
		stmt, err := tx.Prepare(`
			INSERT INTO meals (id, position, name, time, calories, protein, carbs, fat, image)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("prepare meal insert: %w", err)
		}
		defer stmt.Close()

		for i, m := range meals {
			if _, err := stmt.Exec(m.ID, i, m.Name, m.Time, m.Calories, m.Protein, m.Carbs, m.Fat, m.Image); err != nil {
				return fmt.Errorf("insert meal %s: %w", m.ID, err)
			}
		}
		return nil
	})
}
