// ABOUTME: NotificationCenter regenerates notifications from habits and tracks read state.
// ABOUTME: Also owns the single pending achievement slot.
package tracker

import (
	"sync"

	"github.com/harperreed/habits/internal/models"
)

// NotificationSnapshot is the observable state of a NotificationCenter.
type NotificationSnapshot struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
	Achievement   *models.Achievement   `json:"achievement,omitempty"`
}

// NotificationCenter derives notifications from the habit list.
type NotificationCenter struct {
	emitMu        sync.Mutex
	mu            sync.RWMutex
	notifications []models.Notification
	achievement   *models.Achievement
	rules         []Rule
	clock         Clock
	preserveRead  bool
	observers     observers[NotificationSnapshot]
}

// NotificationOption configures a NotificationCenter.
type NotificationOption func(*NotificationCenter)

// WithRules replaces the rule set.
func WithRules(rules ...Rule) NotificationOption {
	return func(c *NotificationCenter) { c.rules = rules }
}

// WithClock sets the clock rules observe.
func WithClock(clock Clock) NotificationOption {
	return func(c *NotificationCenter) { c.clock = clock }
}

// WithPreserveReadState controls whether a regenerated notification keeps
// the read flag of the previous notification with the same id. When false,
// every derivation resets all notifications to unread.
func WithPreserveReadState(preserve bool) NotificationOption {
	return func(c *NotificationCenter) { c.preserveRead = preserve }
}

// WithInitialState seeds the notification list and achievement slot.
func WithInitialState(notifications []models.Notification, achievement *models.Achievement) NotificationOption {
	return func(c *NotificationCenter) {
		c.notifications = cloneNotifications(notifications)
		if achievement != nil {
			a := *achievement
			c.achievement = &a
		}
	}
}

// NewNotificationCenter creates a center with the default rules and the
// system clock.
func NewNotificationCenter(opts ...NotificationOption) *NotificationCenter {
	c := &NotificationCenter{
		rules:        DefaultRules(),
		clock:        SystemClock,
		preserveRead: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe registers fn to run after every state change.
func (c *NotificationCenter) Subscribe(fn func(NotificationSnapshot)) func() {
	return c.observers.add(fn)
}

// Notifications returns a copy of the current list.
func (c *NotificationCenter) Notifications() []models.Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneNotifications(c.notifications)
}

// UnreadCount returns the number of unread notifications.
func (c *NotificationCenter) UnreadCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return models.CountUnread(c.notifications)
}

// CurrentAchievement returns the achievement waiting to be shown.
func (c *NotificationCenter) CurrentAchievement() (models.Achievement, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.achievement == nil {
		return models.Achievement{}, false
	}
	return *c.achievement, true
}

// Snapshot returns the full observable state.
func (c *NotificationCenter) Snapshot() NotificationSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Derive runs every rule against habits and replaces the notification list.
// An empty habit list produces nothing and leaves the state untouched.
func (c *NotificationCenter) Derive(habits []models.Habit) {
	if len(habits) == 0 {
		return
	}

	in := RuleInput{Habits: habits, Now: c.clock.Now()}
	var generated []models.Notification
	var proposed *models.Achievement
	for _, rule := range c.rules {
		out := rule(in)
		generated = append(generated, out.Notifications...)
		if proposed == nil && out.Achievement != nil {
			proposed = out.Achievement
		}
	}

	c.mutate(func() bool {
		if c.preserveRead {
			read := make(map[string]bool, len(c.notifications))
			for _, n := range c.notifications {
				if n.IsRead {
					read[n.ID] = true
				}
			}
			for i := range generated {
				generated[i].IsRead = read[generated[i].ID]
			}
		}
		c.notifications = generated

		if proposed != nil && c.achievement == nil {
			a := *proposed
			c.achievement = &a
		}
		return true
	})
}

// ToggleRead flips the read flag of a notification.
func (c *NotificationCenter) ToggleRead(id string) bool {
	return c.setRead(id, func(read bool) bool { return !read })
}

// MarkRead marks a notification as read.
func (c *NotificationCenter) MarkRead(id string) bool {
	return c.setRead(id, func(bool) bool { return true })
}

// MarkUnread marks a notification as unread.
func (c *NotificationCenter) MarkUnread(id string) bool {
	return c.setRead(id, func(bool) bool { return false })
}

// MarkAllAsRead marks every notification as read.
func (c *NotificationCenter) MarkAllAsRead() {
	c.mutate(func() bool {
		changed := false
		for i := range c.notifications {
			if !c.notifications[i].IsRead {
				c.notifications[i].IsRead = true
				changed = true
			}
		}
		return changed
	})
}

// DeleteNotification removes a notification by id.
func (c *NotificationCenter) DeleteNotification(id string) bool {
	return c.mutate(func() bool {
		for i, n := range c.notifications {
			if n.ID == id {
				c.notifications = append(c.notifications[:i:i], c.notifications[i+1:]...)
				return true
			}
		}
		return false
	})
}

// ClearAllNotifications empties the list.
func (c *NotificationCenter) ClearAllNotifications() {
	c.mutate(func() bool {
		if len(c.notifications) == 0 {
			return false
		}
		c.notifications = nil
		return true
	})
}

// DismissAchievement clears the achievement slot so a later derivation may
// set a new one.
func (c *NotificationCenter) DismissAchievement() {
	c.mutate(func() bool {
		if c.achievement == nil {
			return false
		}
		c.achievement = nil
		return true
	})
}

func (c *NotificationCenter) setRead(id string, next func(bool) bool) bool {
	found := false
	c.mutate(func() bool {
		for i := range c.notifications {
			if c.notifications[i].ID != id {
				continue
			}
			found = true
			want := next(c.notifications[i].IsRead)
			if want == c.notifications[i].IsRead {
				return false
			}
			c.notifications[i].IsRead = want
			return true
		}
		return false
	})
	return found
}

func (c *NotificationCenter) mutate(change func() bool) bool {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	changed := change()
	var snapshot NotificationSnapshot
	if changed {
		snapshot = c.snapshotLocked()
	}
	c.mu.Unlock()

	if changed {
		c.observers.notify(snapshot)
	}
	return changed
}

func (c *NotificationCenter) snapshotLocked() NotificationSnapshot {
	s := NotificationSnapshot{
		Notifications: cloneNotifications(c.notifications),
		UnreadCount:   models.CountUnread(c.notifications),
	}
	if c.achievement != nil {
		a := *c.achievement
		s.Achievement = &a
	}
	return s
}

func cloneNotifications(in []models.Notification) []models.Notification {
	if in == nil {
		return nil
	}
	out := make([]models.Notification, len(in))
	copy(out, in)
	return out
}
