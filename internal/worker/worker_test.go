package worker

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openmenu/riderapp/internal/domain/model"
)

type fakeSyncer struct {
	calls atomic.Int64
}

func (f *fakeSyncer) Fetch(ctx context.Context) ([]model.Notification, error) {
	f.calls.Add(1)
	return nil, nil
}

type fakeAuth struct {
	authenticated atomic.Bool
}

func (f *fakeAuth) Authenticated() bool { return f.authenticated.Load() }

type fakeSink struct {
	calls atomic.Int64
}

func (f *fakeSink) UpdateLocation(ctx context.Context, location model.Location) error {
	f.calls.Add(1)
	return nil
}

type fixedPosition struct{}

func (fixedPosition) Position() (model.Location, bool) {
	return model.Location{Latitude: 24.86, Longitude: 67.01}, true
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestNotificationPollerFetchesWhileAuthenticated(t *testing.T) {
	syncer := &fakeSyncer{}
	auth := &fakeAuth{}
	auth.authenticated.Store(true)

	poller := NewNotificationPoller(syncer, auth, 5*time.Millisecond, testLogger())
	poller.Start(context.Background())
	defer poller.Stop()

	waitFor(t, time.Second, func() bool { return syncer.calls.Load() >= 2 })
}

func TestNotificationPollerIdleWhenLoggedOut(t *testing.T) {
	syncer := &fakeSyncer{}
	auth := &fakeAuth{}

	poller := NewNotificationPoller(syncer, auth, 5*time.Millisecond, testLogger())
	poller.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	poller.Stop()

	if syncer.calls.Load() != 0 {
		t.Fatalf("expected no fetches while logged out, got %d", syncer.calls.Load())
	}
}

func TestNotificationPollerOutlivesStartContext(t *testing.T) {
	syncer := &fakeSyncer{}
	auth := &fakeAuth{}
	auth.authenticated.Store(true)

	// Startup hooks cancel their context as soon as startup returns; the
	// poller must keep running until Stop regardless.
	ctx, cancel := context.WithCancel(context.Background())
	poller := NewNotificationPoller(syncer, auth, 5*time.Millisecond, testLogger())
	poller.Start(ctx)
	cancel()

	waitFor(t, time.Second, func() bool { return syncer.calls.Load() >= 2 })
	poller.Stop()

	after := syncer.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if syncer.calls.Load() != after {
		t.Fatal("expected no fetches after Stop")
	}
}

func TestNotificationPollerStopIsIdempotent(t *testing.T) {
	poller := NewNotificationPoller(&fakeSyncer{}, &fakeAuth{}, 5*time.Millisecond, testLogger())
	poller.Start(context.Background())
	poller.Stop()
	poller.Stop()
}

func TestLocationReporterSendsHeartbeats(t *testing.T) {
	sink := &fakeSink{}
	auth := &fakeAuth{}
	auth.authenticated.Store(true)

	reporter := NewLocationReporter(sink, fixedPosition{}, auth, 5*time.Millisecond, testLogger())
	reporter.Start(context.Background())
	defer reporter.Stop()

	waitFor(t, time.Second, func() bool { return sink.calls.Load() >= 2 })
}

func TestLocationReporterOutlivesStartContext(t *testing.T) {
	sink := &fakeSink{}
	auth := &fakeAuth{}
	auth.authenticated.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	reporter := NewLocationReporter(sink, fixedPosition{}, auth, 5*time.Millisecond, testLogger())
	reporter.Start(ctx)
	cancel()

	waitFor(t, time.Second, func() bool { return sink.calls.Load() >= 2 })
	reporter.Stop()
}

func TestLocationReporterIdleWhenLoggedOut(t *testing.T) {
	sink := &fakeSink{}
	reporter := NewLocationReporter(sink, fixedPosition{}, &fakeAuth{}, 5*time.Millisecond, testLogger())
	reporter.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	reporter.Stop()

	if sink.calls.Load() != 0 {
		t.Fatalf("expected no reports while logged out, got %d", sink.calls.Load())
	}
}
