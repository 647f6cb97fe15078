// ABOUTME: Habit model with its fixed seven-slot weekly history.
// ABOUTME: Habits carry a daily target, today's progress, and a completion streak.
package models

// HistoryLength is the number of slots in a habit's weekly history.
const HistoryLength = 7

// WeekDays are the history labels, oldest first. The last slot is today.
var WeekDays = [HistoryLength]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// HistoryEntry is one day of a habit's history.
type HistoryEntry struct {
	Date  string  `json:"date" yaml:"date"`
	Value float64 `json:"value" yaml:"value"`
}

// Habit is a tracked recurring goal with a numeric daily target.
type Habit struct {
	ID      string         `json:"id" yaml:"id"`
	Name    string         `json:"name" yaml:"name"`
	Icon    string         `json:"icon" yaml:"icon"`
	Target  float64        `json:"target" yaml:"target"`
	Unit    string         `json:"unit" yaml:"unit"`
	Current float64        `json:"current" yaml:"current"`
	Streak  int            `json:"streak" yaml:"streak"`
	History []HistoryEntry `json:"history" yaml:"history"`
	Color   string         `json:"color" yaml:"color"`
}

// HabitSpec is the caller-supplied part of a new habit.
// The store assigns ID, Streak and History.
type HabitSpec struct {
	Name    string  `json:"name"`
	Icon    string  `json:"icon"`
	Target  float64 `json:"target"`
	Unit    string  `json:"unit"`
	Current float64 `json:"current"`
	Color   string  `json:"color"`
}

// IsComplete reports whether today's progress has reached the target.
func (h Habit) IsComplete() bool {
	return h.Current >= h.Target
}

// Percent returns today's progress as a percentage of target, capped at 100.
func (h Habit) Percent() float64 {
	if h.Target <= 0 {
		return 0
	}
	p := h.Current / h.Target * 100
	if p > 100 {
		return 100
	}
	return p
}

// Clone returns a copy that shares no memory with h.
func (h Habit) Clone() Habit {
	c := h
	if h.History != nil {
		c.History = make([]HistoryEntry, len(h.History))
		copy(c.History, h.History)
	}
	return c
}

// EmptyHistory returns a zeroed Mon..Sun history.
func EmptyHistory() []HistoryEntry {
	history := make([]HistoryEntry, HistoryLength)
	for i, day := range WeekDays {
		history[i] = HistoryEntry{Date: day}
	}
	return history
}

// NewHabit builds a habit from a spec with a fresh streak and history.
func NewHabit(id string, spec HabitSpec) Habit {
	return Habit{
		ID:      id,
		Name:    spec.Name,
		Icon:    spec.Icon,
		Target:  spec.Target,
		Unit:    spec.Unit,
		Current: spec.Current,
		Streak:  0,
		History: EmptyHistory(),
		Color:   spec.Color,
	}
}

// CloneHabits deep-copies a habit list.
func CloneHabits(habits []Habit) []Habit {
	if habits == nil {
		return nil
	}
	out := make([]Habit, len(habits))
	for i, h := range habits {
		out[i] = h.Clone()
	}
	return out
}
