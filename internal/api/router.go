// ABOUTME: HTTP API over the habit, meal and notification engine.
// ABOUTME: chi router with request id, recovery, timeout and request logging.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/harperreed/habits/internal/app"
	"github.com/harperreed/habits/internal/live"
	"github.com/harperreed/habits/internal/logger"
)

// API serves one App. Hub is optional; without it /ws is not mounted.
type API struct {
	App *app.App
	Hub *live.Hub

	validate *validator.Validate
}

// New creates an API for a.
func New(a *app.App, hub *live.Hub) *API {
	return &API{App: a, Hub: hub, validate: validator.New()}
}

// Router builds the HTTP handler.
func (a *API) Router() http.Handler {
	if a.validate == nil {
		a.validate = validator.New()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(loggingMiddleware)

	r.Get("/health", a.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", a.handleDashboard)
		r.Get("/progress", a.handleProgress)

		r.Route("/habits", func(r chi.Router) {
			r.Get("/", a.handleListHabits)
			r.Post("/", a.handleCreateHabit)
			r.Post("/reset", a.handleResetHabits)
			r.Put("/{id}", a.handleUpdateHabit)
			r.Delete("/{id}", a.handleDeleteHabit)
		})
		r.Route("/meals", func(r chi.Router) {
			r.Get("/", a.handleListMeals)
			r.Post("/", a.handleCreateMeal)
			r.Get("/totals", a.handleMealTotals)
			r.Patch("/{id}", a.handleUpdateMeal)
			r.Delete("/{id}", a.handleDeleteMeal)
		})
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", a.handleListNotifications)
			r.Delete("/", a.handleClearNotifications)
			r.Post("/read-all", a.handleMarkAllRead)
			r.Post("/{id}/toggle", a.handleToggleNotification)
			r.Post("/{id}/read", a.handleMarkRead)
			r.Post("/{id}/unread", a.handleMarkUnread)
			r.Delete("/{id}", a.handleDeleteNotification)
		})
		r.Get("/achievement", a.handleGetAchievement)
		r.Delete("/achievement", a.handleDismissAchievement)
	})

	if a.Hub != nil {
		r.Get("/ws", a.Hub.Handler(func() interface{} { return a.App.Dashboard() }))
	}
	return r
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.App.Dashboard())
}

func (a *API) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]float64{"progress": a.App.Habits.CalculateDailyProgress()})
}

// persisted writes a storage error left behind by the last mutation.
// It reports whether the request may continue.
func (a *API) persisted(w http.ResponseWriter) bool {
	if err := a.App.PersistErr(); err != nil {
		writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", err.Error())
		return false
	}
	return true
}
