package collector

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"ofs-monitor/src/logger"
	"ofs-monitor/src/models"
	"ofs-monitor/src/state"
	"ofs-monitor/src/utils"
)

// -----------------------------------------------------------------------------
// Shared polling loop
// -----------------------------------------------------------------------------
// Both collectors have the same lifecycle: every interval, record the fetch
// attempt against the store, fetch+parse away from the lock, then swap the
// fresh book in. The concrete collector only supplies FetchBook. A failed
// cycle leaves the previous snapshot in place and never kills the loop.
// -----------------------------------------------------------------------------

type poller struct {
	store    *state.Store
	venue    models.Venue
	name     string
	interval time.Duration
	calendar *utils.TradingCalendar // nil disables the market-hours gate
	Logger   *logger.Logger

	fetch func() (models.MVenueBook, *int64, error)

	cancelFunc context.CancelFunc
	isRunning  atomic.Bool
	mu         sync.Mutex
}

// -----------------------------------------------------------------------------

// Start launches the polling goroutine. It fetches once immediately, then on
// every interval tick until the context is cancelled.
func (p *poller) Start(ctx context.Context, wg *sync.WaitGroup) error {
	if !p.isRunning.CompareAndSwap(false, true) {
		return fmt.Errorf("collector %s is already running", p.name)
	}

	p.mu.Lock()
	runCtx, cancel := context.WithCancel(ctx)
	p.cancelFunc = cancel
	p.mu.Unlock()

	wg.Add(1)
	go p.run(runCtx, wg)

	p.Logger.Info("Started collector %s (interval %v)", p.name, p.interval)
	return nil
}

// -----------------------------------------------------------------------------

func (p *poller) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer p.isRunning.Store(false)

	p.cycle()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Logger.Info("Collector %s stopping", p.name)
			return
		case <-ticker.C:
			p.cycle()
		}
	}
}

// -----------------------------------------------------------------------------

func (p *poller) cycle() {
	if p.calendar != nil && !p.calendar.IsOpenOnMinute(time.Now()) {
		p.Logger.Debug("Collector %s: market closed, skipping cycle", p.name)
		return
	}

	// The fetch attempt is recorded regardless of its outcome.
	p.store.TouchUpdated(p.venue, time.Now())

	book, reserved, err := p.fetch()
	if err != nil {
		p.Logger.Warning("Collector %s: fetch failed, keeping previous snapshot: %v", p.name, err)
		return
	}

	if reserved != nil {
		p.store.SetReservedOnce(p.venue, *reserved)
	}
	p.store.ReplaceBook(p.venue, book)

	p.Logger.Info("Collector %s: replaced snapshot (%d price levels)", p.name, len(book))
}

// -----------------------------------------------------------------------------

// Stop cancels the polling loop. Cancelling the Start context works too.
func (p *poller) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancelFunc != nil {
		p.cancelFunc()
		p.cancelFunc = nil
	}
	return nil
}

// -----------------------------------------------------------------------------

func (p *poller) Name() string {
	return p.name
}

func (p *poller) Venue() models.Venue {
	return p.venue
}
