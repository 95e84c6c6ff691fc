package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openmenu/riderapp/internal/domain/model"
)

type stubNotificationBackend struct {
	notifications []model.Notification
	fetchErr      error
	markErr       error
	marked        []int64
}

func (s *stubNotificationBackend) Notifications(ctx context.Context) ([]model.Notification, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.notifications, nil
}

func (s *stubNotificationBackend) MarkNotificationRead(ctx context.Context, notificationID int64) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.marked = append(s.marked, notificationID)
	return nil
}

func TestNotificationFetchComputesUnread(t *testing.T) {
	now := time.Now()
	stub := &stubNotificationBackend{notifications: []model.Notification{
		{ID: 1, Type: model.NotificationOrderAssigned},
		{ID: 2, Type: model.NotificationOrderStatusChanged, ReadAt: &now},
		{ID: 3, Type: model.NotificationSystemAnnouncement},
	}}
	s := NewNotificationStore(stub, testLogger())

	if _, err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got := s.Unread(); got != 2 {
		t.Fatalf("expected 2 unread, got %d", got)
	}
}

func TestNotificationMarkReadOptimistic(t *testing.T) {
	stub := &stubNotificationBackend{notifications: []model.Notification{{ID: 1}, {ID: 2}}}
	s := NewNotificationStore(stub, testLogger())
	if _, err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if err := s.MarkRead(context.Background(), 1); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	if got := s.Unread(); got != 1 {
		t.Fatalf("expected 1 unread after mark, got %d", got)
	}
	if len(stub.marked) != 1 || stub.marked[0] != 1 {
		t.Fatalf("expected backend call for id 1, got %v", stub.marked)
	}

	notifications := s.Notifications()
	if notifications[0].ReadAt == nil || notifications[1].ReadAt != nil {
		t.Fatalf("expected only notification 1 marked, got %+v", notifications)
	}
}

func TestNotificationMarkReadFailureLeavesStateUntouched(t *testing.T) {
	stub := &stubNotificationBackend{notifications: []model.Notification{{ID: 1}}}
	s := NewNotificationStore(stub, testLogger())
	if _, err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	stub.markErr = errors.New("timeout")
	if err := s.MarkRead(context.Background(), 1); err == nil {
		t.Fatal("expected mark error")
	}
	if s.Unread() != 1 {
		t.Fatalf("expected unread unchanged, got %d", s.Unread())
	}
	if s.Err() != "Failed to mark notification as read" {
		t.Fatalf("expected generic message, got %q", s.Err())
	}
}
