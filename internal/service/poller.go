package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/wasteops-portal/internal/model"
)

// Poller recomputes the dashboard snapshot on a fixed interval so the
// overview endpoint answers from memory. A failed cycle logs the error
// and leaves the previous snapshot in place until the next success.
type Poller struct {
	dashboard *DashboardService
	interval  time.Duration
	log       zerolog.Logger

	mu     sync.RWMutex
	latest *model.DashboardSnapshot
}

func NewPoller(dashboard *DashboardService, interval time.Duration, log zerolog.Logger) *Poller {
	return &Poller{dashboard: dashboard, interval: interval, log: log}
}

// Run blocks until ctx is cancelled. The first cycle fires immediately.
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	snapshot, err := p.dashboard.Snapshot(ctx)
	if err != nil {
		p.log.Error().Err(err).Msg("dashboard refresh failed, keeping stale snapshot")
		return
	}
	p.mu.Lock()
	p.latest = snapshot
	p.mu.Unlock()
}

// Latest returns the most recent successful snapshot, or false before
// the first success.
func (p *Poller) Latest() (*model.DashboardSnapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.latest == nil {
		return nil, false
	}
	return p.latest, true
}
