// ABOUTME: Meal model and partial-update patch for nutrition tracking.
// ABOUTME: Meals hold calories and macros; totals are derived by the meal store.
package models

// Meal is a single logged meal.
type Meal struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Time     string  `json:"time" yaml:"time"`
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
	Image    string  `json:"image,omitempty" yaml:"image,omitempty"`
}

// MealSpec is a meal without an ID.
type MealSpec struct {
	Name     string  `json:"name"`
	Time     string  `json:"time"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Image    string  `json:"image,omitempty"`
}

// MealPatch holds the fields to merge into an existing meal.
// Nil fields are left unchanged.
type MealPatch struct {
	Name     *string  `json:"name,omitempty"`
	Time     *string  `json:"time,omitempty"`
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
	Image    *string  `json:"image,omitempty"`
}

// Nutrition is the aggregate of a set of meals.
type Nutrition struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
}

// NewMeal builds a meal from a spec.
func NewMeal(id string, spec MealSpec) Meal {
	return Meal{
		ID:       id,
		Name:     spec.Name,
		Time:     spec.Time,
		Calories: spec.Calories,
		Protein:  spec.Protein,
		Carbs:    spec.Carbs,
		Fat:      spec.Fat,
		Image:    spec.Image,
	}
}

// Apply merges the non-nil fields of p into m and returns the result.
func (p MealPatch) Apply(m Meal) Meal {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Time != nil {
		m.Time = *p.Time
	}
	if p.Calories != nil {
		m.Calories = *p.Calories
	}
	if p.Protein != nil {
		m.Protein = *p.Protein
	}
	if p.Carbs != nil {
		m.Carbs = *p.Carbs
	}
	if p.Fat != nil {
		m.Fat = *p.Fat
	}
	if p.Image != nil {
		m.Image = *p.Image
	}
	return m
}

// IsEmpty reports whether the patch changes nothing.
func (p MealPatch) IsEmpty() bool {
	return p.Name == nil && p.Time == nil && p.Calories == nil &&
		p.Protein == nil && p.Carbs == nil && p.Fat == nil && p.Image == nil
}
