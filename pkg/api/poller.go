package api

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollInterval matches the refresh cadence of the station list UI.
const DefaultPollInterval = 8 * time.Second

// Poller keeps a local copy of the fleet fresh by calling PollLatest on a
// fixed interval. A failed poll is logged and the last good snapshot is kept.
type Poller struct {
	client   *Client
	interval time.Duration
	log      *slog.Logger
	onUpdate func(*Snapshot)

	mu     sync.RWMutex
	last   *Snapshot
	failed int
}

// NewPoller creates a poller. onUpdate may be nil.
func NewPoller(client *Client, interval time.Duration, logger *slog.Logger, onUpdate func(*Snapshot)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Poller{client: client, interval: interval, log: logger, onUpdate: onUpdate}
}

// Start loads the initial snapshot. Failing to obtain it is returned to the
// caller, since there is nothing to display without it.
func (p *Poller) Start(ctx context.Context) error {
	snap, err := p.client.FetchAll(ctx)
	if err != nil {
		return err
	}
	p.store(snap)
	return nil
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}

// PollOnce performs a single poll and reports whether it succeeded.
func (p *Poller) PollOnce(ctx context.Context) bool {
	snap, err := p.client.PollLatest(ctx)
	if err != nil {
		p.mu.Lock()
		p.failed++
		p.mu.Unlock()
		p.log.Warn("background update failed", "error", err)
		return false
	}
	p.store(snap)
	return true
}

// Latest returns the most recent good snapshot, or nil before Start.
func (p *Poller) Latest() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Failures returns the number of failed polls so far.
func (p *Poller) Failures() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.failed
}

func (p *Poller) store(snap *Snapshot) {
	p.mu.Lock()
	p.last = snap
	p.mu.Unlock()
	if p.onUpdate != nil {
		p.onUpdate(snap)
	}
}
