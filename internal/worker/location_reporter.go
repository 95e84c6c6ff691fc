package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/openmenu/riderapp/internal/domain/model"
)

// PositionSource supplies the device's current position. Returns false when
// no fix is available yet.
type PositionSource interface {
	Position() (model.Location, bool)
}

// LocationSink is the backend operation the reporter drives.
type LocationSink interface {
	UpdateLocation(ctx context.Context, location model.Location) error
}

// LocationReporter sends periodic position heartbeats while a rider is
// logged in. A failed report is dropped; the next tick retries.
type LocationReporter struct {
	sink     LocationSink
	source   PositionSource
	sessions AuthState
	interval time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewLocationReporter constructs the reporter.
func NewLocationReporter(sink LocationSink, source PositionSource, sessions AuthState, interval time.Duration, logger *slog.Logger) *LocationReporter {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &LocationReporter{
		sink:     sink,
		source:   source,
		sessions: sessions,
		interval: interval,
		logger:   logger,
	}
}

// Start launches background reporting. Like the notification poller, the
// loop is detached from ctx's cancellation and runs until Stop.
func (r *LocationReporter) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.cancel = cancel

	r.wg.Add(1)
	go r.loop(runCtx)
}

// Stop waits for the reporting goroutine to finish.
func (r *LocationReporter) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *LocationReporter) loop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.sessions.Authenticated() {
				continue
			}
			location, ok := r.source.Position()
			if !ok {
				continue
			}
			if err := r.sink.UpdateLocation(ctx, location); err != nil {
				r.logger.Warn("location report failed", slog.String("error", err.Error()))
			}
		}
	}
}
