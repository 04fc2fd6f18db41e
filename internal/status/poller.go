package status

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Source produces a fresh status, or an error to skip the tick.
type Source func() (Status, error)

// Poller refreshes the shared status cell on a fixed interval and fans the
// result out to update listeners (one per connected page session). A failed
// refresh is logged and skipped: the previous status stays displayed and
// the next regular tick retries without backoff.
type Poller struct {
	cell     *Cell
	source   Source
	interval time.Duration

	mu        sync.Mutex
	listeners map[int]func(Status)
	nextID    int
}

// NewPoller builds a poller over cell using source.
func NewPoller(cell *Cell, source Source, interval time.Duration) *Poller {
	return &Poller{
		cell:      cell,
		source:    source,
		interval:  interval,
		listeners: make(map[int]func(Status)),
	}
}

// Cell exposes the owned state cell for read access.
func (p *Poller) Cell() *Cell {
	return p.cell
}

// OnUpdate registers fn to run after every status change (refresh ticks and
// manual updates alike) and returns an unregister function.
func (p *Poller) OnUpdate(fn func(Status)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	id := p.nextID
	p.listeners[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// Refresh performs one refresh cycle: pull from the source, replace the
// cell and notify listeners. On source failure the cell is left untouched.
func (p *Poller) Refresh() error {
	st, err := p.source()
	if err != nil {
		return err
	}

	p.cell.Replace(st)
	p.broadcast(st)

	return nil
}

// Update applies a field-wise manual patch and notifies listeners. This is
// the entry point behind the admin status API.
func (p *Poller) Update(patch Patch) Status {
	st := p.cell.Merge(patch)
	p.broadcast(st)

	return st
}

// Run refreshes immediately, then on every interval tick until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	if err := p.Refresh(); err != nil {
		log.Warn().Err(err).Msg("Initial status refresh failed, keeping defaults")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Refresh(); err != nil {
				log.Warn().Err(err).Msg("Status refresh failed, skipping tick")
			}
		}
	}
}

func (p *Poller) broadcast(st Status) {
	p.mu.Lock()
	fns := make([]func(Status), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
