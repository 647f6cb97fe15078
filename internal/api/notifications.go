// ABOUTME: Notification and achievement endpoints.
// ABOUTME: Read-state changes return the updated notification snapshot.
package api

import (
	"net/http"
)

func (a *API) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.App.Notifications.Snapshot())
}

func (a *API) handleToggleNotification(w http.ResponseWriter, r *http.Request) {
	a.setRead(w, urlID(r), a.App.Notifications.ToggleRead)
}

func (a *API) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	a.setRead(w, urlID(r), a.App.Notifications.MarkRead)
}

func (a *API) handleMarkUnread(w http.ResponseWriter, r *http.Request) {
	a.setRead(w, urlID(r), a.App.Notifications.MarkUnread)
}

func (a *API) setRead(w http.ResponseWriter, id string, change func(string) bool) {
	if !change(id) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Notification not found")
		return
	}
	if !a.persisted(w) {
		return
	}
	writeJSON(w, http.StatusOK, a.App.Notifications.Snapshot())
}

func (a *API) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	a.App.Notifications.MarkAllAsRead()
	if !a.persisted(w) {
		return
	}
	writeJSON(w, http.StatusOK, a.App.Notifications.Snapshot())
}

func (a *API) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	if !a.App.Notifications.DeleteNotification(urlID(r)) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Notification not found")
		return
	}
	if !a.persisted(w) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleClearNotifications(w http.ResponseWriter, r *http.Request) {
	a.App.Notifications.ClearAllNotifications()
	if !a.persisted(w) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleGetAchievement(w http.ResponseWriter, r *http.Request) {
	achievement, ok := a.App.Notifications.CurrentAchievement()
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No achievement")
		return
	}
	writeJSON(w, http.StatusOK, achievement)
}

func (a *API) handleDismissAchievement(w http.ResponseWriter, r *http.Request) {
	a.App.Notifications.DismissAchievement()
	if !a.persisted(w) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
