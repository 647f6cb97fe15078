// ABOUTME: Builds the engine from config and a repository and keeps storage in step.
// ABOUTME: Habit changes re-derive notifications; every change is persisted.
package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/harperreed/habits/internal/config"
	"github.com/harperreed/habits/internal/logger"
	"github.com/harperreed/habits/internal/models"
	"github.com/harperreed/habits/internal/seed"
	"github.com/harperreed/habits/internal/storage"
	"github.com/harperreed/habits/internal/tracker"
)

// App owns the stores and the notification center for one process.
type App struct {
	// Config is swapped by ApplyConfig; concurrent readers use Settings.
	Config        *config.Config
	Repo          storage.Repository
	Habits        *tracker.HabitStore
	Meals         *tracker.MealStore
	Notifications *tracker.NotificationCenter

	mu          sync.Mutex
	persistErr  error
	unsubscribe []func()

	cfgMu sync.RWMutex
}

type options struct {
	clock  tracker.Clock
	ids    tracker.IDFunc
	noSeed bool
}

// Option configures New.
type Option func(*options)

// WithClock sets the clock the notification rules observe.
func WithClock(c tracker.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithIDs sets the id allocator for new habits and meals.
func WithIDs(fn tracker.IDFunc) Option {
	return func(o *options) { o.ids = fn }
}

// WithoutSeed leaves an empty repository empty.
func WithoutSeed() Option {
	return func(o *options) { o.noSeed = true }
}

// New loads state from repo and wires observers. Notifications are derived
// on open only when the habits differ from those they were last derived from,
// so cleared, deleted and dismissed state survives a restart.
func New(cfg *config.Config, repo storage.Repository, opts ...Option) (*App, error) {
	o := options{clock: tracker.SystemClock, ids: tracker.UUIDs()}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg == nil {
		cfg = config.Default()
	}

	if !o.noSeed {
		seeded, err := seed.IfEmpty(repo)
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		if seeded {
			logger.Info("seeded starter data")
		}
	}

	habits, err := repo.ListHabits()
	if err != nil {
		return nil, fmt.Errorf("load habits: %w", err)
	}
	meals, err := repo.ListMeals()
	if err != nil {
		return nil, fmt.Errorf("load meals: %w", err)
	}
	notifications, err := repo.ListNotifications()
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	achievement, err := storage.LoadAchievement(repo)
	if err != nil {
		return nil, fmt.Errorf("load achievement: %w", err)
	}

	a := &App{
		Config: cfg,
		Repo:   repo,
		Habits: tracker.NewHabitStore(habits, tracker.WithHabitIDs(o.ids)),
		Meals:  tracker.NewMealStore(meals, tracker.WithMealIDs(o.ids)),
		Notifications: tracker.NewNotificationCenter(
			tracker.WithClock(o.clock),
			tracker.WithPreserveReadState(cfg.PreserveReadState),
			tracker.WithInitialState(notifications, achievement),
		),
	}

	a.unsubscribe = append(a.unsubscribe,
		a.Habits.Subscribe(func(h []models.Habit) {
			a.persist("habits", func() error { return repo.ReplaceHabits(h) })
			a.Notifications.Derive(h)
			a.persist("derived habits", func() error { return saveFingerprint(repo, h) })
		}),
		a.Meals.Subscribe(func(m []models.Meal) {
			a.persist("meals", func() error { return repo.ReplaceMeals(m) })
		}),
		a.Notifications.Subscribe(func(s tracker.NotificationSnapshot) {
			a.persist("notifications", func() error { return repo.ReplaceNotifications(s.Notifications) })
			a.persist("achievement", func() error { return storage.SaveAchievement(repo, s.Achievement) })
		}),
	)

	last, _, err := repo.GetSetting(storage.SettingDerivedHabits)
	if err != nil {
		return nil, fmt.Errorf("load derived habits: %w", err)
	}
	current := a.Habits.Habits()
	if fp, err := fingerprint(current); err != nil || fp != last {
		a.Notifications.Derive(current)
		a.persist("derived habits", func() error { return saveFingerprint(repo, current) })
	}
	if err := a.PersistErr(); err != nil {
		return nil, err
	}

	logger.Debug("app ready",
		"habits", len(habits),
		"meals", len(meals),
		"backend", cfg.GetBackend())
	return a, nil
}

// Open loads config-selected storage and builds an App on it.
func Open(cfg *config.Config, opts ...Option) (*App, error) {
	repo, err := cfg.OpenStorage()
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a, err := New(cfg, repo, opts...)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	return a, nil
}

// PersistErr returns the first storage error seen since the last call and
// clears it.
func (a *App) PersistErr() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.persistErr
	a.persistErr = nil
	return err
}

// Close detaches observers and closes the repository.
func (a *App) Close() error {
	for _, u := range a.unsubscribe {
		u()
	}
	a.unsubscribe = nil
	return a.Repo.Close()
}

// ApplyConfig takes the display settings of a reloaded config: theme and
// profile targets. Storage and read-state settings need a restart.
func (a *App) ApplyConfig(c *config.Config) {
	a.cfgMu.Lock()
	defer a.cfgMu.Unlock()
	next := *a.Config
	next.Theme = c.Theme
	next.Profile = c.Profile
	a.Config = &next
}

// Settings returns the current config.
func (a *App) Settings() *config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.Config
}

func (a *App) persist(what string, fn func() error) {
	if err := fn(); err != nil {
		logger.Error("persist failed", "what", what, "err", err)
		a.mu.Lock()
		if a.persistErr == nil {
			a.persistErr = fmt.Errorf("save %s: %w", what, err)
		}
		a.mu.Unlock()
	}
}

// fingerprint hashes a habit list so a later open can tell whether it changed.
func fingerprint(habits []models.Habit) (string, error) {
	data, err := json.Marshal(habits)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func saveFingerprint(repo storage.Repository, habits []models.Habit) error {
	fp, err := fingerprint(habits)
	if err != nil {
		return err
	}
	return repo.SetSetting(storage.SettingDerivedHabits, fp)
}
