package app

import (
	"sync"

	"github.com/openmenu/riderapp/internal/domain/model"
)

// PositionFeed buffers the device's latest position for the background
// location reporter. The embedding UI pushes fixes in; the reporter reads
// the most recent one each tick.
type PositionFeed struct {
	mu       sync.RWMutex
	location model.Location
	hasFix   bool
}

// NewPositionFeed constructs an empty feed with no fix.
func NewPositionFeed() *PositionFeed {
	return &PositionFeed{}
}

// Set stores the latest device position.
func (p *PositionFeed) Set(location model.Location) {
	p.mu.Lock()
	p.location = location
	p.hasFix = true
	p.mu.Unlock()
}

// Position implements the location reporter's source.
func (p *PositionFeed) Position() (model.Location, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.location, p.hasFix
}
