package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/openmenu/riderapp/internal/domain/model"
)

// NotificationSyncer is the store operation the poller drives.
type NotificationSyncer interface {
	Fetch(ctx context.Context) ([]model.Notification, error)
}

// AuthState gates background work on an active session.
type AuthState interface {
	Authenticated() bool
}

// NotificationPoller periodically refreshes the notification store while a
// rider is logged in. It stands in for the platform's push channel, which
// the mobile app never wired up.
type NotificationPoller struct {
	notifications NotificationSyncer
	sessions      AuthState
	interval      time.Duration
	logger        *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewNotificationPoller constructs the poller.
func NewNotificationPoller(notifications NotificationSyncer, sessions AuthState, interval time.Duration, logger *slog.Logger) *NotificationPoller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &NotificationPoller{
		notifications: notifications,
		sessions:      sessions,
		interval:      interval,
		logger:        logger,
	}
}

// Start launches background polling. The loop is detached from ctx's
// cancellation: startup contexts end as soon as startup completes, while the
// poller must run until Stop.
func (p *NotificationPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel

	p.wg.Add(1)
	go p.loop(runCtx)
}

// Stop waits for the polling goroutine to finish.
func (p *NotificationPoller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *NotificationPoller) loop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.sessions.Authenticated() {
				continue
			}
			if _, err := p.notifications.Fetch(ctx); err != nil {
				p.logger.Warn("notification poll failed", slog.String("error", err.Error()))
			}
		}
	}
}
