// ABOUTME: Habit endpoints: list, create, set today's value, reset and delete.
// ABOUTME: IDs in paths may be unique prefixes.
package api

import (
	"net/http"

	"github.com/harperreed/habits/internal/models"
)

type createHabitRequest struct {
	Name    string  `json:"name" validate:"required,max=64"`
	Icon    string  `json:"icon" validate:"max=16"`
	Target  float64 `json:"target" validate:"gt=0"`
	Unit    string  `json:"unit" validate:"max=32"`
	Current float64 `json:"current" validate:"gte=0"`
	Color   string  `json:"color" validate:"max=32"`
}

type updateHabitRequest struct {
	Value *float64 `json:"value" validate:"required,gte=0"`
}

func (a *API) handleListHabits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.App.Habits.Habits())
}

func (a *API) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if !a.decodeValid(w, r, &req) {
		return
	}

	habit := a.App.Habits.AddHabit(models.HabitSpec{
		Name:    req.Name,
		Icon:    req.Icon,
		Target:  req.Target,
		Unit:    req.Unit,
		Current: req.Current,
		Color:   req.Color,
	})
	if !a.persisted(w) {
		return
	}
	writeJSON(w, http.StatusCreated, habit)
}

func (a *API) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	id, err := a.App.Habits.ResolveID(urlID(r))
	if err != nil {
		writeLookupError(w, err)
		return
	}

	var req updateHabitRequest
	if !a.decodeValid(w, r, &req) {
		return
	}

	a.App.Habits.UpdateHabit(id, *req.Value)
	if !a.persisted(w) {
		return
	}
	habit, ok := a.App.Habits.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Habit not found")
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

func (a *API) handleResetHabits(w http.ResponseWriter, r *http.Request) {
	a.App.Habits.ResetAllHabits()
	if !a.persisted(w) {
		return
	}
	writeJSON(w, http.StatusOK, a.App.Habits.Habits())
}

func (a *API) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	id, err := a.App.Habits.ResolveID(urlID(r))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	if !a.App.Habits.DeleteHabit(id) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Habit not found")
		return
	}
	if !a.persisted(w) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
