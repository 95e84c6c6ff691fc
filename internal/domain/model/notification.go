package model

import "time"

// NotificationType enumerates platform push categories.
type NotificationType string

const (
	NotificationOrderAssigned      NotificationType = "order_assigned"
	NotificationOrderStatusChanged NotificationType = "order_status_changed"
	NotificationSystemAnnouncement NotificationType = "system_announcement"
	NotificationEmergencyAlert     NotificationType = "emergency_alert"
)

// Notification is a platform message addressed to the rider.
type Notification struct {
	ID        int64            `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// Read reports whether the rider has already seen the notification.
func (n Notification) Read() bool { return n.ReadAt != nil }

// CountUnread returns how many notifications have not been read yet.
func CountUnread(notifications []Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.Read() {
			count++
		}
	}
	return count
}
