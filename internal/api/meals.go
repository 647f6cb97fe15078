// ABOUTME: Meal endpoints: list, create, partial update, delete and totals.
// ABOUTME: PATCH bodies merge only the fields present.
package api

import (
	"net/http"

	"github.com/harperreed/habits/internal/models"
)

type createMealRequest struct {
	Name     string  `json:"name" validate:"required,max=64"`
	Time     string  `json:"time" validate:"max=16"`
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
	Image    string  `json:"image" validate:"omitempty,url"`
}

type updateMealRequest struct {
	Name     *string  `json:"name" validate:"omitempty,min=1,max=64"`
	Time     *string  `json:"time" validate:"omitempty,max=16"`
	Calories *float64 `json:"calories" validate:"omitempty,gte=0"`
	Protein  *float64 `json:"protein" validate:"omitempty,gte=0"`
	Carbs    *float64 `json:"carbs" validate:"omitempty,gte=0"`
	Fat      *float64 `json:"fat" validate:"omitempty,gte=0"`
	Image    *string  `json:"image" validate:"omitempty"`
}

func (req updateMealRequest) patch() models.MealPatch {
	return models.MealPatch{
		Name:     req.Name,
		Time:     req.Time,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
		Image:    req.Image,
	}
}

func (a *API) handleListMeals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.App.Meals.Meals())
}

func (a *API) handleCreateMeal(w http.ResponseWriter, r *http.Request) {
	var req createMealRequest
	if !a.decodeValid(w, r, &req) {
		return
	}

	meal := a.App.Meals.AddMeal(models.MealSpec{
		Name:     req.Name,
		Time:     req.Time,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
		Image:    req.Image,
	})
	if !a.persisted(w) {
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

func (a *API) handleUpdateMeal(w http.ResponseWriter, r *http.Request) {
	id, err := a.App.Meals.ResolveID(urlID(r))
	if err != nil {
		writeLookupError(w, err)
		return
	}

	var req updateMealRequest
	if !a.decodeValid(w, r, &req) {
		return
	}
	patch := req.patch()
	if patch.IsEmpty() {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "No fields to update")
		return
	}

	a.App.Meals.UpdateMeal(id, patch)
	if !a.persisted(w) {
		return
	}
	meal, ok := a.App.Meals.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Meal not found")
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

func (a *API) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	id, err := a.App.Meals.ResolveID(urlID(r))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if !a.App.Meals.DeleteMeal(id) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Meal not found")
		return
	}
	if !a.persisted(w) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleMealTotals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.App.Meals.Totals())
}
