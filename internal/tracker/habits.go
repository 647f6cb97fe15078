// ABOUTME: HabitStore is the single writer of habit progress, streaks and history.
// ABOUTME: Mutations are serialized and fan out a settled snapshot to observers.
package tracker

import (
	"sync"

	"github.com/harperreed/habits/internal/models"
)

// HabitStore owns the habit list and the selected-habit reference.
//
// Observers registered with Subscribe run after every effective mutation,
// in mutation order, with a private copy of the list. They may read the
// store but must not mutate it.
type HabitStore struct {
	emitMu    sync.Mutex
	mu        sync.RWMutex
	habits    []models.Habit
	selected  string
	newID     IDFunc
	observers observers[[]models.Habit]
}

// HabitOption configures a HabitStore.
type HabitOption func(*HabitStore)

// WithHabitIDs sets the allocator used by AddHabit.
func WithHabitIDs(fn IDFunc) HabitOption {
	return func(s *HabitStore) { s.newID = fn }
}

// NewHabitStore creates a store holding a copy of habits.
// Habits without a history get a zeroed Mon..Sun history.
func NewHabitStore(habits []models.Habit, opts ...HabitOption) *HabitStore {
	s := &HabitStore{
		habits: models.CloneHabits(habits),
		newID:  UUIDs(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.habits {
		if len(s.habits[i].History) == 0 {
			s.habits[i].History = models.EmptyHistory()
		}
	}
	return s
}

// Habits returns a copy of the habit list in order.
func (s *HabitStore) Habits() []models.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CloneHabits(s.habits)
}

// Get returns the habit with the given id.
func (s *HabitStore) Get(id string) (models.Habit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.habits[i].Clone(), true
	}
	return models.Habit{}, false
}

// ResolveID maps a full id or unique id prefix to a habit id.
func (s *HabitStore) ResolveID(idOrPrefix string) (string, error) {
	s.mu.RLock()
	ids := make([]string, len(s.habits))
	for i, h := range s.habits {
		ids[i] = h.ID
	}
	s.mu.RUnlock()
	return resolvePrefix(ids, idOrPrefix)
}

// Select marks a habit as selected. An unknown id clears the selection.
func (s *HabitStore) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		s.selected = ""
		return
	}
	s.selected = id
}

// ClearSelection drops the selected habit.
func (s *HabitStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = ""
}

// Selected returns the live state of the selected habit.
func (s *HabitStore) Selected() (models.Habit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == "" {
		return models.Habit{}, false
	}
	if i := s.indexOf(s.selected); i >= 0 {
		return s.habits[i].Clone(), true
	}
	return models.Habit{}, false
}

// Subscribe registers fn to run after every mutation. It returns an
// unsubscribe function.
func (s *HabitStore) Subscribe(fn func([]models.Habit)) func() {
	return s.observers.add(fn)
}

// UpdateHabit sets today's value for a habit and advances or resets its
// streak on a completion edge. An unknown id is a silent no-op.
func (s *HabitStore) UpdateHabit(id string, value float64) {
	s.mutate(func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.habits[i] = ApplyValue(s.habits[i], value)
		return true
	})
}

// AddHabit appends a new habit built from spec and returns it.
func (s *HabitStore) AddHabit(spec models.HabitSpec) models.Habit {
	var added models.Habit
	s.mutate(func() bool {
		added = models.NewHabit(s.newID(), spec)
		s.habits = append(s.habits, added.Clone())
		return true
	})
	return added
}

// ResetAllHabits zeroes today's value for every habit. Streaks and
// history are kept.
func (s *HabitStore) ResetAllHabits() {
	s.mutate(func() bool {
		for i := range s.habits {
			s.habits[i].Current = 0
		}
		return true
	})
}

// DeleteHabit removes a habit. It reports whether anything was removed.
func (s *HabitStore) DeleteHabit(id string) bool {
	return s.mutate(func() bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.habits = append(s.habits[:i:i], s.habits[i+1:]...)
		if s.selected == id {
			s.selected = ""
		}
		return true
	})
}

// CalculateDailyProgress returns the percentage of habits at or above target.
func (s *HabitStore) CalculateDailyProgress() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DailyProgress(s.habits)
}

// mutate runs change under the write lock and, if it reports a change,
// hands a snapshot to observers before the next mutation may start.
func (s *HabitStore) mutate(change func() bool) bool {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	changed := change()
	var snapshot []models.Habit
	if changed {
		snapshot = models.CloneHabits(s.habits)
	}
	s.mu.Unlock()

	if changed {
		s.observers.notify(snapshot)
	}
	return changed
}

func (s *HabitStore) indexOf(id string) int {
	for i, h := range s.habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// ApplyValue returns h with today's value set to value.
// The streak moves only on the completion edge: it increments when the
// habit becomes complete and resets to zero when it stops being complete.
// The last history slot mirrors the new value; the history slice is replaced.
func ApplyValue(h models.Habit, value float64) models.Habit {
	wasComplete := h.Current >= h.Target
	isComplete := value >= h.Target

	switch {
	case isComplete && !wasComplete:
		h.Streak++
	case !isComplete && wasComplete:
		h.Streak = 0
	}

	h.Current = value

	history := make([]models.HistoryEntry, len(h.History))
	copy(history, h.History)
	if n := len(history); n > 0 {
		history[n-1].Value = value
	}
	h.History = history

	return h
}

// DailyProgress is 100 * complete / total, or 0 for an empty list.
func DailyProgress(habits []models.Habit) float64 {
	if len(habits) == 0 {
		return 0
	}
	completed := 0
	for _, h := range habits {
		if h.Current >= h.Target {
			completed++
		}
	}
	return float64(completed) / float64(len(habits)) * 100
}
