// ABOUTME: Notification and Achievement models produced by the rule engine.
// ABOUTME: Notification IDs are semantic (one per rule), not random.
package models

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
	NotificationAlert   NotificationType = "alert"
)

// IsValidNotificationType checks if a string is a known notification type.
func IsValidNotificationType(s string) bool {
	switch NotificationType(s) {
	case NotificationSuccess, NotificationWarning, NotificationInfo, NotificationAlert:
		return true
	}
	return false
}

// Notification is a derived message shown to the user.
type Notification struct {
	ID      string           `json:"id" yaml:"id"`
	Title   string           `json:"title" yaml:"title"`
	Message string           `json:"message" yaml:"message"`
	Type    NotificationType `json:"type" yaml:"type"`
	Icon    string           `json:"icon" yaml:"icon"`
	Time    string           `json:"time" yaml:"time"`
	IsRead  bool             `json:"is_read" yaml:"is_read"`
}

// AchievementTier ranks an achievement.
type AchievementTier string

const (
	TierBronze   AchievementTier = "bronze"
	TierSilver   AchievementTier = "silver"
	TierGold     AchievementTier = "gold"
	TierPlatinum AchievementTier = "platinum"
)

// Achievement is a one-at-a-time celebratory notice.
type Achievement struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description" yaml:"description"`
	Icon        string          `json:"icon" yaml:"icon"`
	Tier        AchievementTier `json:"type" yaml:"type"`
}

// CountUnread returns the number of unread notifications.
func CountUnread(notifications []Notification) int {
	n := 0
	for _, notif := range notifications {
		if !notif.IsRead {
			n++
		}
	}
	return n
}
