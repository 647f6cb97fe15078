// ABOUTME: MealStore holds logged meals and derives nutrition totals on read.
// ABOUTME: Same ownership and observer rules as HabitStore.
package tracker

import (
	"sync"

	"github.com/harperreed/habits/internal/models"
)

// MealStore owns the meal list and the selected-meal reference.
type MealStore struct {
	emitMu    sync.Mutex
	mu        sync.RWMutex
	meals     []models.Meal
	selected  string
	newID     IDFunc
	observers observers[[]models.Meal]
}

// MealOption configures a MealStore.
type MealOption func(*MealStore)

// WithMealIDs sets the allocator used by AddMeal.
func WithMealIDs(fn IDFunc) MealOption {
	return func(s *MealStore) { s.newID = fn }
}

// NewMealStore creates a store holding a copy of meals.
func NewMealStore(meals []models.Meal, opts ...MealOption) *MealStore {
	s := &MealStore{
		meals: cloneMeals(meals),
		newID: UUIDs(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Meals returns a copy of the meal list in order.
func (s *MealStore) Meals() []models.Meal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMeals(s.meals)
}

// Get returns the meal with the given id.
func (s *MealStore) Get(id string) (models.Meal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.meals[i], true
	}
	return models.Meal{}, false
}

// ResolveID maps a full id or unique id prefix to a meal id.
func (s *MealStore) ResolveID(idOrPrefix string) (string, error) {
	s.mu.RLock()
	ids := make([]string, len(s.meals))
	for i, m := range s.meals {
		ids[i] = m.ID
	}
	s.mu.RUnlock()
	return resolvePrefix(ids, idOrPrefix)
}

// Select marks a meal as selected. An unknown id clears the selection.
func (s *MealStore) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		s.selected = ""
		return
	}
	s.selected = id
}

// ClearSelection drops the selected meal.
func (s *MealStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// Selected returns the live state of the selected meal.
func (s *MealStore) Selected() (models.Meal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == "" {
		return models.Meal{}, false
	}
	if i := s.indexOf(s.selected); i >= 0 {
		return s.meals[i], true
	}
	return models.Meal{}, false
}

// Subscribe registers fn to run after every mutation.
func (s *MealStore) Subscribe(fn func([]models.Meal)) func() {
	return s.observers.add(fn)
}

// CalculateTotalCalories sums calories across all meals.
func (s *MealStore) CalculateTotalCalories() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, m := range s.meals {
		total += m.Calories
	}
	return total
}

// Totals sums calories and macros across all meals.
func (s *MealStore) Totals() models.Nutrition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return NutritionTotals(s.meals)
}

// AddMeal appends a new meal built from spec and returns it.
func (s *MealStore) AddMeal(spec models.MealSpec) models.Meal {
	var added models.Meal
	s.mutate(func() bool {
		added = models.NewMeal(s.newID(), spec)
		s.meals = append(s.meals, added)
		return true
	})
	return added
}

// UpdateMeal merges patch into the matching meal. An unknown id is a
// silent no-op.
func (s *MealStore) UpdateMeal(id string, patch models.MealPatch) {
	s.mutate(func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.meals[i] = patch.Apply(s.meals[i])
		return true
	})
}

// DeleteMeal removes a meal. It reports whether anything was removed.
func (s *MealStore) DeleteMeal(id string) bool {
	return s.mutate(func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.meals = append(s.meals[:i:i], s.meals[i+1:]...)
		if s.selected == id {
			s.selected = ""
		}
		return true
	})
}

func (s *MealStore) mutate(change func() bool) bool {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	changed := change()
	var snapshot []models.Meal
	if changed {
		snapshot = cloneMeals(s.meals)
	}
	s.mu.Unlock()

	if changed {
		s.observers.notify(snapshot)
	}
	return changed
}

func (s *MealStore) indexOf(id string) int {
	for i, m := range s.meals {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// NutritionTotals sums calories and macros.
func NutritionTotals(meals []models.Meal) models.Nutrition {
	var n models.Nutrition
	for _, m := range meals {
		n.Calories += m.Calories
		n.Protein += m.Protein
		n.Carbs += m.Carbs
		n.Fat += m.Fat
	}
	return n
}

func cloneMeals(meals []models.Meal) []models.Meal {
	if meals == nil {
		return nil
	}
	out := make([]models.Meal, len(meals))
	copy(out, meals)
	return out
}
