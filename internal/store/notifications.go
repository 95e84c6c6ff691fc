package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/openmenu/riderapp/internal/domain/model"
)

// NotificationBackend is the slice of the rider API the notification store
// consumes.
type NotificationBackend interface {
	Notifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID int64) error
}

// NotificationStore holds the rider's notification list and unread counter.
// Same fetch-all plus mark-read pattern as orders.
type NotificationStore struct {
	mu      sync.RWMutex
	backend NotificationBackend
	logger  *slog.Logger

	notifications []model.Notification
	unread        int
	loading       bool
	errMsg        string
}

// NewNotificationStore constructs a notification store over the backend.
func NewNotificationStore(b NotificationBackend, logger *slog.Logger) *NotificationStore {
	return &NotificationStore{backend: b, logger: logger}
}

// Fetch retrieves all notifications, replacing the list wholesale and
// recomputing the unread counter.
func (s *NotificationStore) Fetch(ctx context.Context) ([]model.Notification, error) {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	notifications, err := s.backend.Notifications(ctx)
	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.errMsg = messageOrFallback(err, "Failed to fetch notifications")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.notifications = notifications
	s.unread = model.CountUnread(notifications)
	s.loading = false
	out := make([]model.Notification, len(notifications))
	copy(out, notifications)
	s.mu.Unlock()
	return out, nil
}

// MarkRead marks one notification as read on the backend, then applies the
// read timestamp in place without re-fetching.
func (s *NotificationStore) MarkRead(ctx context.Context, notificationID int64) error {
	if err := s.backend.MarkNotificationRead(ctx, notificationID); err != nil {
		s.mu.Lock()
		s.errMsg = messageOrFallback(err, "Failed to mark notification as read")
		s.mu.Unlock()
		return err
	}

	now := time.Now()
	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].ID == notificationID && s.notifications[i].ReadAt == nil {
			s.notifications[i].ReadAt = &now
		}
	}
	s.unread = model.CountUnread(s.notifications)
	s.errMsg = ""
	s.mu.Unlock()
	return nil
}

// Unread returns the number of unread notifications for the badge.
func (s *NotificationStore) Unread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// Notifications returns a copy of the current list.
func (s *NotificationStore) Notifications() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// Err returns the last failure message, empty after a success.
func (s *NotificationStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}
